package winners

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/pkg/formulas"
)

// Probability status labels for the next-win cadence model
const (
	StatusLow      = "Low - Too soon since last win"
	StatusMedium   = "Medium - Approaching average window"
	StatusHigh     = "High - Within expected window"
	StatusVeryHigh = "Very High - Overdue for a win"
)

// InsufficientDataMessage is returned when fewer than two winning dates exist
const InsufficientDataMessage = "Insufficient data for prediction"

// NoWinnersMessage is returned when the dataset has no winning draws at all
const NoWinnersMessage = "No winning draws found in the dataset"

// JackpotStats summarises parsed jackpot amounts across winning draws
type JackpotStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// DayCount pairs a weekday with its winning-draw count
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// MonthCount pairs a month (1-12) with its winning-draw count
type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// Cadence models the rhythm of jackpot wins
type Cadence struct {
	Message               string  `json:"message,omitempty"`
	AverageDaysBetween    float64 `json:"average_days_between_wins,omitempty"`
	MedianDaysBetween     float64 `json:"median_days_between_wins,omitempty"`
	StdDevDays            float64 `json:"std_dev_days,omitempty"`
	LastWinDate           string  `json:"last_win_date,omitempty"`
	DaysSinceLastWin      int     `json:"days_since_last_win,omitempty"`
	ExpectedNextWinInDays int     `json:"expected_next_win_in_days,omitempty"`
	EarlyWindowDays       int     `json:"early_win_window_days,omitempty"`
	LateWindowDays        int     `json:"late_win_window_days,omitempty"`
	ProbabilityStatus     string  `json:"probability_status,omitempty"`
}

// Analysis is the winner-specific view of a dataset.
type Analysis struct {
	TotalWinningDraws int                     `json:"total_winning_draws"`
	Message           string                  `json:"message,omitempty"`
	WinRate           float64                 `json:"win_rate,omitempty"`
	MostFrequent      []frequency.NumberCount `json:"most_frequent_winning_numbers,omitempty"`
	HotNumbers        []int                   `json:"hot_winning_numbers,omitempty"`
	DayFrequency      map[string]int          `json:"winning_days_frequency,omitempty"`
	BestDays          []DayCount              `json:"best_winning_days,omitempty"`
	MonthFrequency    map[int]int             `json:"winning_months_frequency,omitempty"`
	BestMonths        []MonthCount            `json:"best_winning_months,omitempty"`
	EvenOddPatterns   frequency.PatternDist   `json:"winning_even_odd_patterns,omitempty"`
	HighLowPatterns   frequency.PatternDist   `json:"winning_high_low_patterns,omitempty"`
	Jackpot           *JackpotStats           `json:"jackpot_stats,omitempty"`
	NextWin           Cadence                 `json:"next_win_probability"`
}

// Analyze isolates the winning draws and derives win-cadence statistics.
// now anchors the days-since-last-win computation so callers (and tests)
// control the reference point.
func Analyze(ds *dataset.Dataset, now time.Time) Analysis {
	winning := ds.WinningDraws()
	if len(winning) == 0 {
		return Analysis{
			TotalWinningDraws: 0,
			Message:           NoWinnersMessage,
		}
	}

	profile := frequency.Compute(winning, ds.Game)

	a := Analysis{
		TotalWinningDraws: len(winning),
		WinRate:           formulas.Round2(float64(len(winning)) / float64(ds.Len()) * 100),
		MostFrequent:      profile.MostFrequent,
		HotNumbers:        profile.HotNumbers,
		EvenOddPatterns:   profile.EvenOdd,
		HighLowPatterns:   profile.HighLow.PatternDist,
		Jackpot:           jackpotStats(winning),
		NextWin:           cadence(winning, now),
	}

	a.DayFrequency, a.BestDays = dayBreakdown(winning)
	a.MonthFrequency, a.BestMonths = monthBreakdown(winning)
	return a
}

// dayBreakdown counts wins per weekday; ties resolve in Monday-first order
func dayBreakdown(winning []domain.DrawRecord) (map[string]int, []DayCount) {
	freq := make(map[string]int)
	for _, d := range winning {
		freq[d.DayOfWeek]++
	}

	var ordered []DayCount
	for _, day := range domain.DaysOfWeek {
		if freq[day] > 0 {
			ordered = append(ordered, DayCount{Day: day, Count: freq[day]})
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Count > ordered[j].Count })
	if len(ordered) > 3 {
		ordered = ordered[:3]
	}
	return freq, ordered
}

// monthBreakdown counts wins per month; ties resolve in January-first order
func monthBreakdown(winning []domain.DrawRecord) (map[int]int, []MonthCount) {
	freq := make(map[int]int)
	for _, d := range winning {
		freq[int(d.Date.Month())]++
	}

	var ordered []MonthCount
	for m := 1; m <= 12; m++ {
		if freq[m] > 0 {
			ordered = append(ordered, MonthCount{Month: m, Count: freq[m]})
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Count > ordered[j].Count })
	if len(ordered) > 3 {
		ordered = ordered[:3]
	}
	return freq, ordered
}

// jackpotStats parses currency-formatted jackpot strings. Non-numeric values
// are skipped, never errors.
func jackpotStats(winning []domain.DrawRecord) *JackpotStats {
	var amounts []float64
	for _, d := range winning {
		if amount, ok := parseJackpot(d.Jackpot); ok {
			amounts = append(amounts, amount)
		}
	}
	if len(amounts) == 0 {
		return nil
	}

	return &JackpotStats{
		Count:   len(amounts),
		Average: formulas.Round2(formulas.Mean(amounts)),
		Min:     formulas.Round2(formulas.Min(amounts)),
		Max:     formulas.Round2(formulas.Max(amounts)),
	}
}

func parseJackpot(raw string) (float64, bool) {
	if raw == "" || raw == "N/A" {
		return 0, false
	}
	clean := strings.NewReplacer(",", "", "₱", "", "PHP", "").Replace(raw)
	clean = strings.TrimSpace(clean)

	amount, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// cadence derives gap statistics over the sorted winning dates and classifies
// the current probability status against avg ± stddev offsets.
func cadence(winning []domain.DrawRecord, now time.Time) Cadence {
	dates := make([]time.Time, 0, len(winning))
	for _, d := range winning {
		dates = append(dates, d.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) < 2 {
		return Cadence{Message: InsufficientDataMessage}
	}

	gaps := make([]float64, 0, len(dates)-1)
	for i := 0; i < len(dates)-1; i++ {
		gaps = append(gaps, dates[i+1].Sub(dates[i]).Hours()/24)
	}

	avg := formulas.Mean(gaps)
	std := formulas.StdDev(gaps)
	last := dates[len(dates)-1]
	daysSince := int(now.Sub(last).Hours() / 24)

	early := int(avg - std)
	if early < 1 {
		early = 1
	}

	return Cadence{
		AverageDaysBetween:    formulas.Round2(avg),
		MedianDaysBetween:     formulas.Round2(formulas.Median(gaps)),
		StdDevDays:            formulas.Round2(std),
		LastWinDate:           last.Format("2006-01-02"),
		DaysSinceLastWin:      daysSince,
		ExpectedNextWinInDays: int(avg),
		EarlyWindowDays:       early,
		LateWindowDays:        int(avg + std),
		ProbabilityStatus:     status(float64(daysSince), avg, std),
	}
}

func status(daysSince, avg, std float64) string {
	switch {
	case daysSince < avg-std:
		return StatusLow
	case daysSince < avg:
		return StatusMedium
	case daysSince < avg+std:
		return StatusHigh
	default:
		return StatusVeryHigh
	}
}
