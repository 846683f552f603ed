package scorers

import (
	"math/rand"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
)

const (
	winnerBoost     = 1.5
	winnerFallback  = 0.5
	winnerJitter    = 0.2
	winPatternBonus = 0.3
)

// WinnerStrategy draws from the numbers that appeared in jackpot-winning
// draws, boosted above everything else. Numbers never seen in a winning
// draw keep a discounted weight from their overall frequency so the pool
// never collapses to the winners alone.
type WinnerStrategy struct {
	prediction.WeightedSampler
	weights       map[int]float64
	winEvenOdd    string
	game          domain.GameConfig
	hasWinnerData bool
	fallback      *FrequencyStrategy
}

// NewWinnerStrategy builds the strategy from winning-draw counts plus
// overall counts. winEvenOdd is the most common even/odd pattern among
// winning draws; combinations matching it earn a bonus. When the dataset
// has no winning draws at all the strategy degrades to plain frequency.
func NewWinnerStrategy(winCounts, allCounts map[int]int, winEvenOdd string, game domain.GameConfig) *WinnerStrategy {
	if len(winCounts) == 0 {
		return &WinnerStrategy{
			game:     game,
			fallback: NewFrequencyStrategy(allCounts, game),
		}
	}

	maxWin := maxCount(winCounts)
	maxAll := maxCount(allCounts)
	if maxWin == 0 {
		maxWin = 1
	}
	if maxAll == 0 {
		maxAll = 1
	}

	weights := make(map[int]float64, game.MaxNumber)
	for n := 1; n <= game.MaxNumber; n++ {
		if c, ok := winCounts[n]; ok {
			weights[n] = float64(c) / float64(maxWin) * winnerBoost
		} else {
			weights[n] = float64(allCounts[n]) / float64(maxAll) * winnerFallback
		}
	}

	return &WinnerStrategy{
		WeightedSampler: prediction.WeightedSampler{
			Weights: weights,
			Jitter:  winnerJitter,
			K:       game.NumbersToPick,
		},
		weights:       weights,
		winEvenOdd:    winEvenOdd,
		game:          game,
		hasWinnerData: true,
	}
}

func (s *WinnerStrategy) Name() string { return "winner" }

func (s *WinnerStrategy) Sample(rng *rand.Rand) ([]int, bool) {
	if !s.hasWinnerData {
		return s.fallback.Sample(rng)
	}
	return s.WeightedSampler.Sample(rng)
}

// Score weighs winner-pool membership heaviest, with a pattern bonus when
// the combination matches the winning draws' dominant even/odd shape.
func (s *WinnerStrategy) Score(numbers []int) float64 {
	if !s.hasWinnerData {
		return s.fallback.Score(numbers)
	}
	if len(numbers) == 0 {
		return 0
	}

	sum := 0.0
	for _, n := range numbers {
		sum += s.weights[n]
	}
	base := sum / float64(len(numbers))

	bonus := 0.0
	if s.winEvenOdd != "" && frequency.EvenOddPattern(numbers) == s.winEvenOdd {
		bonus = winPatternBonus
	}

	total := 0.7*base + bonus + 0.2*spreadBonus(numbers, s.game)
	return total * 100
}
