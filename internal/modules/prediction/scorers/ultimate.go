package scorers

import (
	"math"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
)

const (
	ultimateFloor  = 0.05
	ultimateJitter = 0.3

	recentWindowDraws = 50
)

// UltimateInputs collects every signal the combined strategy blends.
type UltimateInputs struct {
	// Counts is the full-history frequency table.
	Counts map[int]int

	// RecentCounts covers only the most recent draws (see RecentWindow).
	RecentCounts map[int]int

	// WinCounts covers jackpot-winning draws only.
	WinCounts map[int]int

	// Consistency maps number -> normalized cross-year consistency [0,1].
	Consistency map[int]float64

	// HighlyFrequent marks numbers drawn well above the expected rate.
	HighlyFrequent map[int]bool

	// ConsistentSet marks the numbers that cleared the consistency cut.
	ConsistentSet map[int]bool

	// RecentEvenOdd and RecentHighLow are the dominant patterns of the
	// recent window; candidates matching them earn a bonus.
	RecentEvenOdd string
	RecentHighLow string

	// AverageSum is the historical mean combination sum.
	AverageSum float64
}

// RecentWindow is the number of latest draws feeding RecentCounts.
func RecentWindow() int { return recentWindowDraws }

// UltimateStrategy blends every other signal into one weight table:
// overall frequency, cross-year consistency, recent momentum, winner
// history, and a bonus for historically over-performing numbers.
type UltimateStrategy struct {
	prediction.WeightedSampler
	weights map[int]float64
	in      UltimateInputs
	game    domain.GameConfig
}

// NewUltimateStrategy builds the combined strategy
func NewUltimateStrategy(in UltimateInputs, game domain.GameConfig) *UltimateStrategy {
	maxFreq := maxCount(in.Counts)
	maxRecent := maxCount(in.RecentCounts)
	maxWin := maxCount(in.WinCounts)
	if maxFreq == 0 {
		maxFreq = 1
	}
	if maxRecent == 0 {
		maxRecent = 1
	}
	if maxWin == 0 {
		maxWin = 1
	}

	weights := make(map[int]float64, game.MaxNumber)
	for n := 1; n <= game.MaxNumber; n++ {
		w := 0.30 * float64(in.Counts[n]) / float64(maxFreq)
		w += 0.25 * in.Consistency[n]
		w += 0.20 * float64(in.RecentCounts[n]) / float64(maxRecent)
		w += 0.15 * float64(in.WinCounts[n]) / float64(maxWin)
		if in.HighlyFrequent[n] {
			w += 0.10
		}
		if w < ultimateFloor {
			w = ultimateFloor
		}
		weights[n] = w
	}

	return &UltimateStrategy{
		WeightedSampler: prediction.WeightedSampler{
			Weights: weights,
			Jitter:  ultimateJitter,
			K:       game.NumbersToPick,
		},
		weights: weights,
		in:      in,
		game:    game,
	}
}

func (s *UltimateStrategy) Name() string { return "ultimate" }

// Score combines weight strength, pattern agreement with the recent
// window, overlap with the consistent-performer set, and a composite of
// balance, spread, and sum closeness.
func (s *UltimateStrategy) Score(numbers []int) float64 {
	if len(numbers) == 0 {
		return 0
	}
	k := float64(len(numbers))

	sum := 0.0
	for _, n := range numbers {
		sum += s.weights[n]
	}
	base := sum / k

	pattern := 0.0
	if s.in.RecentEvenOdd != "" && frequency.EvenOddPattern(numbers) == s.in.RecentEvenOdd {
		pattern += 0.5
	}
	if s.in.RecentHighLow != "" && frequency.HighLowPattern(numbers, s.game.MidPoint()) == s.in.RecentHighLow {
		pattern += 0.5
	}

	overlap := 0
	for _, n := range numbers {
		if s.in.ConsistentSet[n] {
			overlap++
		}
	}
	consistency := float64(overlap) / k

	composite := (balanceBonus(numbers) + spreadBonus(numbers, s.game) + s.sumCloseness(numbers)) / 3

	total := 0.30*base + 0.25*pattern + 0.25*consistency + 0.20*composite
	return total * 100
}

func (s *UltimateStrategy) sumCloseness(numbers []int) float64 {
	if s.in.AverageSum <= 0 {
		return 0
	}
	sum := 0
	for _, n := range numbers {
		sum += n
	}
	closeness := 1 - math.Abs(float64(sum)-s.in.AverageSum)/s.in.AverageSum
	if closeness < 0 {
		return 0
	}
	return closeness
}
