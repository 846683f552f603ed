package accuracy

import (
	"sort"
	"time"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
)

// DrawDateLayout keys accuracy records by draw date
const DrawDateLayout = "2006-01-02"

// Algorithm keys, matching the prediction list names in reports. The
// ultimate list is generated for display but not graded.
const (
	AlgorithmTop     = "top_predictions"
	AlgorithmWinning = "winning_predictions"
	AlgorithmPattern = "pattern_predictions"
)

// GradedAlgorithms lists the comparison lists in report order
var GradedAlgorithms = []string{AlgorithmTop, AlgorithmWinning, AlgorithmPattern}

// Comparison grades one predicted combination against the actual draw
type Comparison struct {
	Rank      int     `json:"rank"`
	Predicted []int   `json:"predicted"`
	Matched   []int   `json:"matched"`
	Matches   int     `json:"matches"`
	Score     float64 `json:"score"`
}

// Provenance records which snapshot was graded and why it was chosen
type Provenance struct {
	Filename        string `json:"filename"`
	GeneratedAt     string `json:"generated_at"`
	CoverageEnd     string `json:"coverage_end"`
	SelectionReason string `json:"selection_reason"`
}

// BestMatch points at the strongest comparison in a record
type BestMatch struct {
	Algorithm string `json:"algorithm"`
	Rank      int    `json:"rank"`
	Matches   int    `json:"matches"`
}

// Record is one graded draw: every prediction list from the chosen
// snapshot compared against the numbers that actually came out. Records
// are keyed by (game_type, draw_date); a re-check replaces the old
// record. Snapshot and Results are absent when no analysis existed to
// grade against.
type Record struct {
	GameType    string                  `json:"game_type"`
	DrawDate    string                  `json:"draw_date"`
	DrawNumbers []int                   `json:"winning_numbers"`
	Jackpot     string                  `json:"jackpot,omitempty"`
	Winners     string                  `json:"winners,omitempty"`
	CheckedAt   string                  `json:"checked_at"`
	Snapshot    *Provenance             `json:"analysis_snapshot,omitempty"`
	Results     map[string][]Comparison `json:"prediction_results,omitempty"`
	BestMatch   BestMatch               `json:"best_match"`
}

// Compare grades a snapshot's predictions against one actual draw
func Compare(sel *Selection, draw domain.DrawRecord, now time.Time) *Record {
	record := &Record{
		GameType:    sel.Report.GameType,
		DrawDate:    draw.Date.Format(DrawDateLayout),
		DrawNumbers: draw.Numbers,
		Jackpot:     draw.Jackpot,
		Winners:     draw.Winners,
		CheckedAt:   now.Format(analysis.AnalyzedAtLayout),
		Snapshot: &Provenance{
			Filename:        sel.Filename,
			GeneratedAt:     sel.Report.AnalyzedAt,
			CoverageEnd:     sel.Report.DateRange.End,
			SelectionReason: sel.Reason,
		},
		Results: make(map[string][]Comparison, len(GradedAlgorithms)),
	}

	actual := draw.NumberSet()
	lists := map[string][]prediction.Candidate{
		AlgorithmTop:     sel.Report.Predictions.Top,
		AlgorithmWinning: sel.Report.Predictions.Winning,
		AlgorithmPattern: sel.Report.Predictions.Pattern,
	}

	for _, algorithm := range GradedAlgorithms {
		comparisons := gradeList(lists[algorithm], actual)
		record.Results[algorithm] = comparisons

		for _, c := range comparisons {
			if c.Matches > record.BestMatch.Matches {
				record.BestMatch = BestMatch{
					Algorithm: algorithm,
					Rank:      c.Rank,
					Matches:   c.Matches,
				}
			}
		}
	}
	return record
}

// NewUngraded records a draw for which no analysis snapshot existed.
// The draw is still persisted under its (game_type, draw_date) key so a
// later re-check can replace it; the comparison block stays absent.
func NewUngraded(gameType string, draw domain.DrawRecord, now time.Time) *Record {
	return &Record{
		GameType:    gameType,
		DrawDate:    draw.Date.Format(DrawDateLayout),
		DrawNumbers: draw.Numbers,
		Jackpot:     draw.Jackpot,
		Winners:     draw.Winners,
		CheckedAt:   now.Format(analysis.AnalyzedAtLayout),
	}
}

func gradeList(candidates []prediction.Candidate, actual map[int]bool) []Comparison {
	out := make([]Comparison, 0, len(candidates))
	for i, c := range candidates {
		matched := make([]int, 0, len(c.Numbers))
		for _, n := range c.Numbers {
			if actual[n] {
				matched = append(matched, n)
			}
		}
		sort.Ints(matched)

		out = append(out, Comparison{
			Rank:      i + 1,
			Predicted: c.Numbers,
			Matched:   matched,
			Matches:   len(matched),
			Score:     c.Score,
		})
	}
	return out
}
