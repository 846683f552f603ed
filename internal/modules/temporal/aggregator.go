package temporal

import (
	"math"
	"sort"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/pkg/formulas"
)

// consistencyEpsilon keeps the relative-stddev ratio defined when a number's
// mean yearly frequency is zero.
const consistencyEpsilon = 1e-6

// highPerformerRatio flags a year as distinct when its frequency exceeds this
// multiple of the number's average across the other years.
const highPerformerRatio = 1.5

// ConsistentPerformer is a number whose frequency repeats stably year over year
type ConsistentPerformer struct {
	Number           int     `json:"number"`
	AverageFrequency float64 `json:"average_frequency"`
	ConsistencyScore float64 `json:"consistency_score"`
	YearsAppeared    int     `json:"years_appeared"`
}

// HighPerformer is a number with one standout year
type HighPerformer struct {
	Number                 int     `json:"number"`
	Year                   int     `json:"year"`
	Frequency              int     `json:"frequency"`
	ImprovementOverAverage float64 `json:"improvement_over_average"`
}

// YearOverYear holds the cross-year trend lists
type YearOverYear struct {
	ConsistentPerformers  []ConsistentPerformer `json:"consistent_performers"`
	DistinctHighPerformers []HighPerformer      `json:"distinct_high_performers"`
}

// Patterns is the full temporal breakdown of a dataset: per-partition
// frequency profiles plus year-over-year trends.
type Patterns struct {
	ByYear       map[int]frequency.Profile    `json:"by_year"`
	ByMonth      map[int]frequency.Profile    `json:"by_month"`
	ByISOWeek    map[int]frequency.Profile    `json:"by_iso_week"`
	ByDayOfWeek  map[string]frequency.Profile `json:"by_day_of_week"`
	YearOverYear YearOverYear                 `json:"year_over_year_trends"`
}

// Analyze partitions the dataset by calendar year, month-of-year, ISO week
// and weekday, profiling each partition.
func Analyze(ds *dataset.Dataset) Patterns {
	byYear := make(map[int][]domain.DrawRecord)
	byMonth := make(map[int][]domain.DrawRecord)
	byWeek := make(map[int][]domain.DrawRecord)
	byDay := make(map[string][]domain.DrawRecord)

	for _, d := range ds.Draws {
		year := d.Date.Year()
		_, week := d.Date.ISOWeek()

		byYear[year] = append(byYear[year], d)
		byMonth[int(d.Date.Month())] = append(byMonth[int(d.Date.Month())], d)
		byWeek[week] = append(byWeek[week], d)
		byDay[d.DayOfWeek] = append(byDay[d.DayOfWeek], d)
	}

	p := Patterns{
		ByYear:      make(map[int]frequency.Profile, len(byYear)),
		ByMonth:     make(map[int]frequency.Profile, len(byMonth)),
		ByISOWeek:   make(map[int]frequency.Profile, len(byWeek)),
		ByDayOfWeek: make(map[string]frequency.Profile, len(byDay)),
	}

	for year, draws := range byYear {
		p.ByYear[year] = frequency.Compute(draws, ds.Game)
	}
	for month, draws := range byMonth {
		p.ByMonth[month] = frequency.Compute(draws, ds.Game)
	}
	for week, draws := range byWeek {
		p.ByISOWeek[week] = frequency.Compute(draws, ds.Game)
	}
	for day, draws := range byDay {
		p.ByDayOfWeek[day] = frequency.Compute(draws, ds.Game)
	}

	p.YearOverYear = yearOverYearTrends(ds, byYear)
	return p
}

// ConsistencyScores computes 1 - stddev/(mean+eps) over each number's
// per-year frequency vector. Numbers never drawn are absent from the result.
func ConsistencyScores(ds *dataset.Dataset) map[int]float64 {
	byYear := make(map[int][]domain.DrawRecord)
	for _, d := range ds.Draws {
		byYear[d.Date.Year()] = append(byYear[d.Date.Year()], d)
	}
	return consistencyScores(ds, byYear)
}

func consistencyScores(ds *dataset.Dataset, byYear map[int][]domain.DrawRecord) map[int]float64 {
	years := sortedYears(byYear)
	if len(years) == 0 {
		return map[int]float64{}
	}

	yearCounts := make(map[int]map[int]int, len(years))
	for year, draws := range byYear {
		yearCounts[year] = frequency.Count(draws)
	}

	scores := make(map[int]float64)
	for n := 1; n <= ds.Game.MaxNumber; n++ {
		vector := make([]float64, 0, len(years))
		total := 0
		for _, year := range years {
			c := yearCounts[year][n]
			total += c
			vector = append(vector, float64(c))
		}
		if total == 0 {
			continue
		}

		mean := formulas.Mean(vector)
		std := formulas.StdDev(vector)
		scores[n] = 1 - std/(mean+consistencyEpsilon)
	}
	return scores
}

func yearOverYearTrends(ds *dataset.Dataset, byYear map[int][]domain.DrawRecord) YearOverYear {
	years := sortedYears(byYear)
	scores := consistencyScores(ds, byYear)

	trends := YearOverYear{}
	if len(scores) == 0 {
		return trends
	}

	yearCounts := make(map[int]map[int]int, len(years))
	for year, draws := range byYear {
		yearCounts[year] = frequency.Count(draws)
	}

	firstSeen := firstAppearanceIndex(ds)

	var candidates []ConsistentPerformer
	for n, score := range scores {
		var vector []float64
		appeared := 0
		for _, year := range years {
			c := yearCounts[year][n]
			vector = append(vector, float64(c))
			if c > 0 {
				appeared++
			}
		}
		candidates = append(candidates, ConsistentPerformer{
			Number:           n,
			AverageFrequency: formulas.Mean(vector),
			ConsistencyScore: score,
			YearsAppeared:    appeared,
		})
	}

	// Descending by score; ties keep raw draw order of first appearance
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ConsistencyScore != candidates[j].ConsistencyScore {
			return candidates[i].ConsistencyScore > candidates[j].ConsistencyScore
		}
		return firstSeen[candidates[i].Number] < firstSeen[candidates[j].Number]
	})

	// Relative cut: keep the better half of the candidate pool
	keep := (len(candidates) + 1) / 2
	trends.ConsistentPerformers = candidates[:keep]

	trends.DistinctHighPerformers = distinctHighPerformers(years, yearCounts)
	return trends
}

// distinctHighPerformers flags numbers whose frequency in one year exceeds
// 1.5x their average across all other years.
func distinctHighPerformers(years []int, yearCounts map[int]map[int]int) []HighPerformer {
	if len(years) < 2 {
		return nil
	}

	numbers := make(map[int]bool)
	for _, counts := range yearCounts {
		for n := range counts {
			numbers[n] = true
		}
	}

	var out []HighPerformer
	for n := range numbers {
		for _, year := range years {
			freq := yearCounts[year][n]
			if freq == 0 {
				continue
			}

			var others []float64
			for _, other := range years {
				if other != year {
					others = append(others, float64(yearCounts[other][n]))
				}
			}
			avgOthers := formulas.Mean(others)
			if avgOthers <= 0 {
				continue
			}
			if float64(freq) > highPerformerRatio*avgOthers {
				out = append(out, HighPerformer{
					Number:                 n,
					Year:                   year,
					Frequency:              freq,
					ImprovementOverAverage: (float64(freq)/avgOthers - 1) * 100,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ImprovementOverAverage != out[j].ImprovementOverAverage {
			return out[i].ImprovementOverAverage > out[j].ImprovementOverAverage
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func sortedYears(byYear map[int][]domain.DrawRecord) []int {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// firstAppearanceIndex maps each number to the index of the draw where it was
// first encountered, scanning draws in dataset order.
func firstAppearanceIndex(ds *dataset.Dataset) map[int]int {
	idx := make(map[int]int)
	for i, d := range ds.Draws {
		for _, n := range d.Numbers {
			if _, ok := idx[n]; !ok {
				idx[n] = i
			}
		}
	}
	return idx
}

// ConsistentSet returns the numbers of the retained consistent performers
func (y YearOverYear) ConsistentSet() map[int]bool {
	set := make(map[int]bool, len(y.ConsistentPerformers))
	for _, p := range y.ConsistentPerformers {
		set[p.Number] = true
	}
	return set
}

// normalized consistency for scoring use: negatives clamp to zero
func NormalizedConsistency(scores map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(scores))
	for n, s := range scores {
		out[n] = math.Max(0, s)
	}
	return out
}
