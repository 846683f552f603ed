// Package analysis assembles full reports: overall statistics, temporal
// patterns, winner analysis, consecutive-draw behaviour, per-day
// breakdowns, predictions, and chart-ready series.
package analysis

import (
	"fmt"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/pkg/formulas"
)

// NotEnoughDrawsMessage is reported when consecutive-draw analysis needs
// at least two draws.
const NotEnoughDrawsMessage = "Not enough draws for consecutive analysis"

// LatestDraw summarizes the most recent draw inside a carryover block
type LatestDraw struct {
	Date    string `json:"date"`
	Numbers []int  `json:"numbers"`
	Sum     int    `json:"sum"`
}

// Carryover describes how numbers and patterns persist between
// consecutive draws.
type Carryover struct {
	Message                     string         `json:"message,omitempty"`
	AverageCarryover            float64        `json:"average_carryover"`
	MostCommonCarryover         int            `json:"most_common_carryover"`
	CarryoverDistribution       map[int]int    `json:"carryover_distribution"`
	AverageNewNumbers           float64        `json:"average_new_numbers"`
	AverageSumDifference        float64        `json:"average_sum_difference"`
	PatternTransitions          map[string]int `json:"pattern_transitions"`
	MostCommonPatternTransition string         `json:"most_common_pattern_transition"`
	LatestDraw                  *LatestDraw    `json:"latest_draw,omitempty"`
}

// AnalyzeCarryover walks adjacent draw pairs (newest first) measuring how
// many numbers repeat, how many are fresh, how the sum moves, and how the
// even/odd pattern transitions.
func AnalyzeCarryover(ds *dataset.Dataset) Carryover {
	if ds.Len() < 2 {
		return Carryover{Message: NotEnoughDrawsMessage}
	}

	var (
		carryovers   []float64
		newCounts    []float64
		sumDiffs     []float64
		distribution = make(map[int]int)
		transitions  = make(map[string]int)
		transOrder   []string
	)

	for i := 0; i+1 < ds.Len(); i++ {
		current := ds.Draws[i]
		previous := ds.Draws[i+1]

		overlap := overlapCount(current, previous)
		carryovers = append(carryovers, float64(overlap))
		distribution[overlap]++

		newCounts = append(newCounts, float64(len(current.Numbers)-overlap))
		sumDiffs = append(sumDiffs, float64(current.Sum()-previous.Sum()))

		key := fmt.Sprintf("%s -> %s",
			frequency.EvenOddPattern(previous.Numbers),
			frequency.EvenOddPattern(current.Numbers))
		if _, seen := transitions[key]; !seen {
			transOrder = append(transOrder, key)
		}
		transitions[key]++
	}

	latest := ds.Latest()
	return Carryover{
		AverageCarryover:            formulas.Round2(formulas.Mean(carryovers)),
		MostCommonCarryover:         mostCommonOverlap(distribution),
		CarryoverDistribution:       distribution,
		AverageNewNumbers:           formulas.Round2(formulas.Mean(newCounts)),
		AverageSumDifference:        formulas.Round2(formulas.Mean(sumDiffs)),
		PatternTransitions:          transitions,
		MostCommonPatternTransition: mostCommonTransition(transitions, transOrder),
		LatestDraw: &LatestDraw{
			Date:    latest.DateRaw,
			Numbers: latest.Numbers,
			Sum:     latest.Sum(),
		},
	}
}

func overlapCount(a, b domain.DrawRecord) int {
	set := b.NumberSet()
	n := 0
	for _, v := range a.Numbers {
		if set[v] {
			n++
		}
	}
	return n
}

// mostCommonOverlap breaks ties on the smaller carryover count
func mostCommonOverlap(distribution map[int]int) int {
	best, bestCount := 0, -1
	for overlap := 0; overlap <= maxKey(distribution); overlap++ {
		if c, ok := distribution[overlap]; ok && c > bestCount {
			best, bestCount = overlap, c
		}
	}
	return best
}

func maxKey(m map[int]int) int {
	max := 0
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}

// mostCommonTransition keeps encounter order on ties, matching the other
// pattern histograms.
func mostCommonTransition(transitions map[string]int, order []string) string {
	best, bestCount := "", 0
	for _, key := range order {
		if transitions[key] > bestCount {
			best, bestCount = key, transitions[key]
		}
	}
	return best
}
