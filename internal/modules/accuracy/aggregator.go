package accuracy

import (
	"sort"

	"github.com/aristath/fortune-lab/pkg/formulas"
)

// recentLimit caps the recent-results list in summaries
const recentLimit = 10

// DefaultHighlightMin is the minimum match count for a comparison to be
// listed as a best performance.
const DefaultHighlightMin = 3

// AlgorithmStats aggregates one algorithm across all graded records.
// NearPerfectHits counts comparisons one number short of the full draw,
// NearMissHits two short; the distribution carries every bin from zero
// up to the draw size, zeros included.
type AlgorithmStats struct {
	Records         int         `json:"records"`
	Comparisons     int         `json:"comparisons"`
	TotalMatches    int         `json:"total_matches"`
	AverageMatches  float64     `json:"average_matches"`
	BestMatches     int         `json:"best_matches"`
	JackpotHits     int         `json:"jackpot_hits"`
	NearPerfectHits int         `json:"near_perfect_hits"`
	NearMissHits    int         `json:"near_miss_hits"`
	Distribution    map[int]int `json:"match_distribution"`
}

// BestPerformance is one standout comparison worth surfacing
type BestPerformance struct {
	GameType  string `json:"game_type"`
	DrawDate  string `json:"draw_date"`
	Algorithm string `json:"algorithm"`
	Rank      int    `json:"rank"`
	Matches   int    `json:"matches"`
	Predicted []int  `json:"predicted"`
	Matched   []int  `json:"matched"`
}

// RecentResult is the short view of one graded draw
type RecentResult struct {
	GameType      string `json:"game_type"`
	DrawDate      string `json:"draw_date"`
	BestMatches   int    `json:"best_matches"`
	BestAlgorithm string `json:"best_algorithm"`
	CheckedAt     string `json:"checked_at"`
}

// GameStats aggregates accuracy per game
type GameStats struct {
	Records            int     `json:"records"`
	AverageBestMatches float64 `json:"average_best_matches"`
	JackpotHits        int     `json:"jackpot_hits"`
}

// Summary is the full cross-record accuracy view
type Summary struct {
	TotalRecords     int                       `json:"total_records"`
	Algorithms       map[string]AlgorithmStats `json:"algorithms"`
	BestAlgorithm    string                    `json:"best_algorithm,omitempty"`
	BestPerformances []BestPerformance         `json:"best_performances"`
	Recent           []RecentResult            `json:"recent_results"`
	Games            map[string]GameStats      `json:"game_breakdown"`
}

// Aggregate folds graded records into a summary. highlightMin gates the
// best-performances list; pass DefaultHighlightMin unless configured
// otherwise.
func Aggregate(records []*Record, highlightMin int) Summary {
	summary := Summary{
		TotalRecords: len(records),
		Algorithms:   make(map[string]AlgorithmStats),
		Games:        make(map[string]GameStats),
	}
	gameBest := make(map[string][]float64)

	for _, algorithm := range GradedAlgorithms {
		summary.Algorithms[algorithm] = AlgorithmStats{Distribution: make(map[int]int)}
	}

	for _, record := range records {
		drawSize := len(record.DrawNumbers)

		for _, algorithm := range GradedAlgorithms {
			comparisons := record.Results[algorithm]
			if len(comparisons) == 0 {
				continue
			}

			stats := summary.Algorithms[algorithm]
			stats.Records++
			for m := 0; m <= drawSize; m++ {
				if _, ok := stats.Distribution[m]; !ok {
					stats.Distribution[m] = 0
				}
			}
			for _, c := range comparisons {
				stats.Comparisons++
				stats.TotalMatches += c.Matches
				stats.Distribution[c.Matches]++
				if c.Matches > stats.BestMatches {
					stats.BestMatches = c.Matches
				}
				if drawSize > 0 && c.Matches > 0 {
					switch c.Matches {
					case drawSize:
						stats.JackpotHits++
					case drawSize - 1:
						stats.NearPerfectHits++
					case drawSize - 2:
						stats.NearMissHits++
					}
				}
				if c.Matches >= highlightMin {
					summary.BestPerformances = append(summary.BestPerformances, BestPerformance{
						GameType:  record.GameType,
						DrawDate:  record.DrawDate,
						Algorithm: algorithm,
						Rank:      c.Rank,
						Matches:   c.Matches,
						Predicted: c.Predicted,
						Matched:   c.Matched,
					})
				}
			}
			summary.Algorithms[algorithm] = stats
		}

		game := summary.Games[record.GameType]
		game.Records++
		if drawSize > 0 && record.BestMatch.Matches == drawSize {
			game.JackpotHits++
		}
		summary.Games[record.GameType] = game
		gameBest[record.GameType] = append(gameBest[record.GameType], float64(record.BestMatch.Matches))

		summary.Recent = append(summary.Recent, RecentResult{
			GameType:      record.GameType,
			DrawDate:      record.DrawDate,
			BestMatches:   record.BestMatch.Matches,
			BestAlgorithm: record.BestMatch.Algorithm,
			CheckedAt:     record.CheckedAt,
		})
	}

	for algorithm, stats := range summary.Algorithms {
		if stats.Comparisons > 0 {
			stats.AverageMatches = formulas.Round2(float64(stats.TotalMatches) / float64(stats.Comparisons))
		}
		summary.Algorithms[algorithm] = stats
	}
	for game, stats := range summary.Games {
		stats.AverageBestMatches = formulas.Round2(formulas.Mean(gameBest[game]))
		summary.Games[game] = stats
	}

	sort.SliceStable(summary.BestPerformances, func(i, j int) bool {
		a, b := summary.BestPerformances[i], summary.BestPerformances[j]
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return a.DrawDate > b.DrawDate
	})

	sort.SliceStable(summary.Recent, func(i, j int) bool {
		return summary.Recent[i].DrawDate > summary.Recent[j].DrawDate
	})
	if len(summary.Recent) > recentLimit {
		summary.Recent = summary.Recent[:recentLimit]
	}

	summary.BestAlgorithm = bestAlgorithm(summary.Algorithms)
	return summary
}

// bestAlgorithm ranks by average matches, breaking ties on jackpot hits.
// Report order breaks remaining ties so the result is stable.
func bestAlgorithm(algorithms map[string]AlgorithmStats) string {
	best := ""
	for _, algorithm := range GradedAlgorithms {
		stats := algorithms[algorithm]
		if stats.Comparisons == 0 {
			continue
		}
		if best == "" {
			best = algorithm
			continue
		}
		current := algorithms[best]
		if stats.AverageMatches > current.AverageMatches ||
			(stats.AverageMatches == current.AverageMatches && stats.JackpotHits > current.JackpotHits) {
			best = algorithm
		}
	}
	return best
}
