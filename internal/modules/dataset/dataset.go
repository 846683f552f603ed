package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/domain"
)

// RawFile mirrors the on-disk draw dataset written by the scraper.
type RawFile struct {
	GameType   string              `json:"game_type"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	TotalDraws int                 `json:"total_draws"`
	ScrapedAt  string              `json:"scraped_at,omitempty"`
	Results    []domain.DrawRecord `json:"results"`
}

// Dataset is an immutable, newest-first collection of draw records for one
// game, with the game dimensions parsed once at construction.
type Dataset struct {
	Game      domain.GameConfig
	StartDate string
	EndDate   string
	Draws     []domain.DrawRecord

	// Skipped counts records dropped during validation
	Skipped int
}

// dateLayouts accepted for draw dates. The scraper writes MM/DD/YYYY; older
// exports used ISO dates.
var dateLayouts = []string{"01/02/2006", "2006-01-02"}

// ParseDate parses a draw date in any of the accepted layouts
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// New builds a Dataset from a raw file. Missing game_type or results fail
// fast; individual malformed records are skipped with a warning.
func New(raw RawFile, log zerolog.Logger) (*Dataset, error) {
	if raw.GameType == "" {
		return nil, fmt.Errorf("dataset is missing game_type")
	}
	if len(raw.Results) == 0 {
		return nil, fmt.Errorf("dataset %q has no results", raw.GameType)
	}

	game, err := domain.ParseGameConfig(raw.GameType)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Game:      game,
		StartDate: raw.StartDate,
		EndDate:   raw.EndDate,
	}

	for _, rec := range raw.Results {
		date, err := ParseDate(rec.DateRaw)
		if err != nil {
			log.Warn().Str("date", rec.DateRaw).Msg("Skipping draw with unparseable date")
			ds.Skipped++
			continue
		}
		if !validNumbers(rec.Numbers, game) {
			log.Warn().
				Str("date", rec.DateRaw).
				Ints("numbers", rec.Numbers).
				Msg("Skipping draw with invalid numbers")
			ds.Skipped++
			continue
		}

		rec.Date = date
		if rec.DayOfWeek == "" {
			rec.DayOfWeek = date.Weekday().String()
		}
		ds.Draws = append(ds.Draws, rec)
	}

	if len(ds.Draws) == 0 {
		return nil, fmt.Errorf("dataset %q has no valid draws", raw.GameType)
	}

	// Newest first
	sort.SliceStable(ds.Draws, func(i, j int) bool {
		return ds.Draws[i].Date.After(ds.Draws[j].Date)
	})

	return ds, nil
}

func validNumbers(numbers []int, game domain.GameConfig) bool {
	if len(numbers) != game.NumbersToPick {
		return false
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > game.MaxNumber || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

// Len returns the number of valid draws
func (d *Dataset) Len() int {
	return len(d.Draws)
}

// Latest returns the most recent draw
func (d *Dataset) Latest() domain.DrawRecord {
	return d.Draws[0]
}

// Recent returns up to n of the most recent draws
func (d *Dataset) Recent(n int) []domain.DrawRecord {
	if n >= len(d.Draws) {
		return d.Draws
	}
	return d.Draws[:n]
}

// ByDay returns the draws that fell on the given weekday
func (d *Dataset) ByDay(day string) []domain.DrawRecord {
	var out []domain.DrawRecord
	for _, rec := range d.Draws {
		if rec.DayOfWeek == day {
			out = append(out, rec)
		}
	}
	return out
}

// WinningDraws returns the draws that produced a jackpot winner
func (d *Dataset) WinningDraws() []domain.DrawRecord {
	var out []domain.DrawRecord
	for _, rec := range d.Draws {
		if rec.HasWinner() {
			out = append(out, rec)
		}
	}
	return out
}
