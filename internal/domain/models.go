package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DaysOfWeek is the canonical weekday ordering used across all analyses.
// Draws use Monday-first ordering, matching the PCSO result pages.
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// GameConfig describes a lottery game: how many numbers are picked per draw
// and the top of the drawable range. Parsed once from the game label
// (e.g. "Ultra Lotto 6/58" -> pick 6 from 1-58) instead of re-splitting the
// label at every use site.
type GameConfig struct {
	Name          string `json:"name"`
	NumbersToPick int    `json:"numbers_to_pick"`
	MaxNumber     int    `json:"max_number"`
}

var gameLabelRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ParseGameConfig extracts game parameters from a label containing a "k/N"
// pattern. Returns an error when the label carries no such pattern, since no
// analysis can proceed without the draw dimensions.
func ParseGameConfig(label string) (GameConfig, error) {
	m := gameLabelRe.FindStringSubmatch(label)
	if m == nil {
		return GameConfig{}, fmt.Errorf("game label %q has no k/N pattern", label)
	}

	picks, _ := strconv.Atoi(m[1])
	max, _ := strconv.Atoi(m[2])
	if picks <= 0 || max <= 0 || picks > max {
		return GameConfig{}, fmt.Errorf("game label %q has invalid dimensions %d/%d", label, picks, max)
	}

	return GameConfig{
		Name:          label,
		NumbersToPick: picks,
		MaxNumber:     max,
	}, nil
}

// MidPoint returns the high/low split point (integer division)
func (g GameConfig) MidPoint() int {
	return g.MaxNumber / 2
}

// DrawRecord is one lottery result. Immutable once loaded.
type DrawRecord struct {
	Date      time.Time `json:"-"`
	DateRaw   string    `json:"date"`
	DayOfWeek string    `json:"day_of_week"`
	Numbers   []int     `json:"numbers"`
	Jackpot   string    `json:"jackpot,omitempty"`
	Winners   string    `json:"winners,omitempty"`
}

// Sum returns the sum of the drawn numbers
func (r DrawRecord) Sum() int {
	total := 0
	for _, n := range r.Numbers {
		total += n
	}
	return total
}

// NumberSet returns the drawn numbers as a set
func (r DrawRecord) NumberSet() map[int]bool {
	set := make(map[int]bool, len(r.Numbers))
	for _, n := range r.Numbers {
		set[n] = true
	}
	return set
}

// winnerSentinels are the values the result pages use for "no jackpot winner".
var winnerSentinels = map[string]bool{
	"0":         true,
	"N/A":       true,
	"0 winner":  true,
	"No winner": true,
}

// HasWinner reports whether this draw produced at least one jackpot winner
func (r DrawRecord) HasWinner() bool {
	return r.Winners != "" && !winnerSentinels[r.Winners]
}
