package frequency

import (
	"fmt"
	"sort"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/pkg/formulas"
)

// NumberCount pairs a drawn number with its appearance count
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// PatternDist is a histogram of pattern keys ("4E-2O", "3L-3H") with the
// most common key. Ties resolve to the first pattern that reached the
// maximum in encounter order, not alphabetically.
type PatternDist struct {
	Patterns        map[string]int `json:"patterns"`
	MostCommon      string         `json:"most_common_pattern"`
	MostCommonCount int            `json:"most_common_count"`
}

// HighLowDist is a PatternDist annotated with the split point used
type HighLowDist struct {
	PatternDist
	MidPoint int `json:"mid_point"`
}

// ConsecutiveStats describes adjacent-pair behaviour across a draw subset
type ConsecutiveStats struct {
	AverageConsecutive        float64 `json:"average_consecutive"`
	MaxConsecutive            int     `json:"max_consecutive"`
	DrawsWithConsecutive      int     `json:"draws_with_consecutive"`
	PercentageWithConsecutive float64 `json:"percentage_with_consecutive"`
}

// SumStats describes the distribution of per-draw number sums
type SumStats struct {
	Average float64 `json:"average_sum"`
	Median  float64 `json:"median_sum"`
	StdDev  float64 `json:"std_dev"`
	Min     int     `json:"min_sum"`
	Max     int     `json:"max_sum"`
}

// Profile is the full frequency and pattern breakdown of a draw subset.
type Profile struct {
	TotalDraws       int              `json:"total_draws"`
	NumberFrequency  map[int]int      `json:"number_frequency"`
	MostFrequent     []NumberCount    `json:"most_frequent_numbers"`
	LeastFrequent    []NumberCount    `json:"least_frequent_numbers"`
	AverageFrequency float64          `json:"average_frequency"`
	HotNumbers       []int            `json:"hot_numbers"`
	ColdNumbers      []int            `json:"cold_numbers"`
	EvenOdd          PatternDist      `json:"even_odd_analysis"`
	HighLow          HighLowDist      `json:"high_low_analysis"`
	Consecutive      ConsecutiveStats `json:"consecutive_analysis"`
	Sum              SumStats         `json:"sum_analysis"`
}

const topListSize = 10

// Compute builds the frequency profile of a draw subset. Pure function of
// its inputs; an empty subset yields a zero profile.
func Compute(draws []domain.DrawRecord, game domain.GameConfig) Profile {
	if len(draws) == 0 {
		return Profile{NumberFrequency: map[int]int{}}
	}

	counts := Count(draws)
	entries := orderedCounts(draws, counts)

	p := Profile{
		TotalDraws:      len(draws),
		NumberFrequency: counts,
		// Every draw contributes k numbers, spread over 1..N
		AverageFrequency: float64(game.NumbersToPick*len(draws)) / float64(game.MaxNumber),
		EvenOdd:          Distribution(draws, EvenOddPattern),
		Consecutive:      consecutiveStats(draws),
		Sum:              sumStats(draws),
	}

	mid := game.MidPoint()
	p.HighLow = HighLowDist{
		PatternDist: Distribution(draws, func(nums []int) string {
			return HighLowPattern(nums, mid)
		}),
		MidPoint: mid,
	}

	desc := make([]NumberCount, len(entries))
	copy(desc, entries)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Count > desc[j].Count })

	asc := make([]NumberCount, len(entries))
	copy(asc, entries)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Count < asc[j].Count })

	p.MostFrequent = topN(desc, topListSize)
	p.LeastFrequent = topN(asc, topListSize)
	for _, e := range p.MostFrequent {
		p.HotNumbers = append(p.HotNumbers, e.Number)
	}
	for _, e := range p.LeastFrequent {
		p.ColdNumbers = append(p.ColdNumbers, e.Number)
	}

	return p
}

// Count tallies how often each number appears across the subset
func Count(draws []domain.DrawRecord) map[int]int {
	counts := make(map[int]int)
	for _, d := range draws {
		for _, n := range d.Numbers {
			counts[n]++
		}
	}
	return counts
}

// orderedCounts returns counts as a slice ordered by first appearance in the
// subset, so stable sorts keep encounter order on ties.
func orderedCounts(draws []domain.DrawRecord, counts map[int]int) []NumberCount {
	seen := make(map[int]bool, len(counts))
	var out []NumberCount
	for _, d := range draws {
		for _, n := range d.Numbers {
			if !seen[n] {
				seen[n] = true
				out = append(out, NumberCount{Number: n, Count: counts[n]})
			}
		}
	}
	return out
}

func topN(entries []NumberCount, n int) []NumberCount {
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Distribution builds a pattern histogram over draws using the given key
// function, tracking encounter order for the tie-break rule.
func Distribution(draws []domain.DrawRecord, key func([]int) string) PatternDist {
	counts := make(map[string]int)
	var order []string

	for _, d := range draws {
		k := key(d.Numbers)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	dist := PatternDist{Patterns: counts}
	for _, k := range order {
		if counts[k] > dist.MostCommonCount {
			dist.MostCommon = k
			dist.MostCommonCount = counts[k]
		}
	}
	return dist
}

// EvenCount returns how many of the numbers are even
func EvenCount(numbers []int) int {
	count := 0
	for _, n := range numbers {
		if n%2 == 0 {
			count++
		}
	}
	return count
}

// EvenOddPattern renders the even/odd split as "{e}E-{o}O"
func EvenOddPattern(numbers []int) string {
	even := EvenCount(numbers)
	return fmt.Sprintf("%dE-%dO", even, len(numbers)-even)
}

// HighLowPattern renders the low/high split at mid as "{lo}L-{hi}H"
func HighLowPattern(numbers []int, mid int) string {
	low := 0
	for _, n := range numbers {
		if n <= mid {
			low++
		}
	}
	return fmt.Sprintf("%dL-%dH", low, len(numbers)-low)
}

// ConsecutivePairs counts adjacent pairs (difference of exactly 1) in the
// sorted combination
func ConsecutivePairs(numbers []int) int {
	sorted := make([]int, len(numbers))
	copy(sorted, numbers)
	sort.Ints(sorted)

	pairs := 0
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i+1]-sorted[i] == 1 {
			pairs++
		}
	}
	return pairs
}

func consecutiveStats(draws []domain.DrawRecord) ConsecutiveStats {
	perDraw := make([]float64, 0, len(draws))
	stats := ConsecutiveStats{}

	for _, d := range draws {
		pairs := ConsecutivePairs(d.Numbers)
		perDraw = append(perDraw, float64(pairs))
		if pairs > stats.MaxConsecutive {
			stats.MaxConsecutive = pairs
		}
		if pairs > 0 {
			stats.DrawsWithConsecutive++
		}
	}

	stats.AverageConsecutive = formulas.Mean(perDraw)
	stats.PercentageWithConsecutive = float64(stats.DrawsWithConsecutive) / float64(len(draws)) * 100
	return stats
}

func sumStats(draws []domain.DrawRecord) SumStats {
	sums := make([]float64, 0, len(draws))
	for _, d := range draws {
		sums = append(sums, float64(d.Sum()))
	}

	return SumStats{
		Average: formulas.Mean(sums),
		Median:  formulas.Median(sums),
		StdDev:  formulas.StdDev(sums),
		Min:     int(formulas.Min(sums)),
		Max:     int(formulas.Max(sums)),
	}
}
