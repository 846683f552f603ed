package scorers

import (
	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
)

const (
	frequencyFloor  = 0.1
	frequencyJitter = 0.3
)

// FrequencyStrategy favors historically frequent numbers. Every number in
// the game range stays drawable through a small weight floor, so rare and
// never-drawn numbers can still surface.
type FrequencyStrategy struct {
	prediction.WeightedSampler
	weights map[int]float64
	game    domain.GameConfig
}

// NewFrequencyStrategy builds the strategy from the full-history counts
func NewFrequencyStrategy(counts map[int]int, game domain.GameConfig) *FrequencyStrategy {
	maxFreq := maxCount(counts)
	if maxFreq == 0 {
		maxFreq = 1
	}

	weights := make(map[int]float64, game.MaxNumber)
	for n := 1; n <= game.MaxNumber; n++ {
		w := float64(counts[n]) / float64(maxFreq)
		if w < frequencyFloor {
			w = frequencyFloor
		}
		weights[n] = w
	}

	return &FrequencyStrategy{
		WeightedSampler: prediction.WeightedSampler{
			Weights: weights,
			Jitter:  frequencyJitter,
			K:       game.NumbersToPick,
		},
		weights: weights,
		game:    game,
	}
}

func (s *FrequencyStrategy) Name() string { return "frequency" }

// Score blends historical weight with even/odd balance and range spread
func (s *FrequencyStrategy) Score(numbers []int) float64 {
	if len(numbers) == 0 {
		return 0
	}

	sum := 0.0
	for _, n := range numbers {
		sum += s.weights[n]
	}
	base := sum / float64(len(numbers))

	total := 0.6*base + 0.2*balanceBonus(numbers) + 0.2*spreadBonus(numbers, s.game)
	return total * 100
}
