package scorers

import (
	"math"
	"math/rand"

	"github.com/aristath/fortune-lab/internal/domain"
)

// carryoverNoise is the uniform jitter added to each frequency weight when
// filling the non-carryover slots. It is deliberately large relative to the
// raw counts so the fill phase stays exploratory.
const carryoverNoise = 50

// CarryoverAttemptFactor is the attempt budget multiplier for carryover
// generation. The two-phase draw rejects more often than the plain weighted
// samplers, so it gets a larger budget.
const CarryoverAttemptFactor = 200

// CarryoverStrategy models the tendency of numbers to repeat between
// consecutive draws. Each candidate takes the historical average carryover
// count directly from the latest draw, then fills the remaining slots from
// the overall frequency table.
type CarryoverStrategy struct {
	latest        []int
	expectedCount int
	expectedAvg   float64
	counts        map[int]int
	maxFreq       int
	game          domain.GameConfig
}

// NewCarryoverStrategy builds the strategy. latest is the most recent
// draw's numbers; avgCarryover is the historical mean overlap between
// consecutive draws. Returns nil when the dataset is too small to have a
// carryover history (fewer than two draws).
func NewCarryoverStrategy(latest []int, avgCarryover float64, counts map[int]int, game domain.GameConfig) *CarryoverStrategy {
	if len(latest) == 0 {
		return nil
	}

	expected := int(math.Round(avgCarryover))
	if expected > len(latest) {
		expected = len(latest)
	}
	if expected < 0 {
		expected = 0
	}

	maxFreq := maxCount(counts)
	if maxFreq == 0 {
		maxFreq = 1
	}

	return &CarryoverStrategy{
		latest:        latest,
		expectedCount: expected,
		expectedAvg:   avgCarryover,
		counts:        counts,
		maxFreq:       maxFreq,
		game:          game,
	}
}

func (s *CarryoverStrategy) Name() string { return "carryover" }

// Sample draws in two phases: a uniform pick of expectedCount numbers from
// the latest draw, then a jittered frequency-weighted fill of the rest.
func (s *CarryoverStrategy) Sample(rng *rand.Rand) ([]int, bool) {
	carry := s.pickCarryover(rng)

	taken := make(map[int]bool, s.game.NumbersToPick)
	for _, n := range carry {
		taken[n] = true
	}

	numbers := append([]int(nil), carry...)
	remaining := s.game.NumbersToPick - len(numbers)
	if remaining < 0 {
		return nil, false
	}

	pool := make([]int, 0, s.game.MaxNumber)
	weights := make([]float64, 0, s.game.MaxNumber)
	total := 0.0
	for n := 1; n <= s.game.MaxNumber; n++ {
		if taken[n] {
			continue
		}
		w := float64(s.counts[n]) + rng.Float64()*carryoverNoise
		pool = append(pool, n)
		weights = append(weights, w)
		total += w
	}

	for i := 0; i < remaining; i++ {
		if len(pool) == 0 || total <= 0 {
			return nil, false
		}
		r := rng.Float64() * total
		idx := len(pool) - 1
		for j, w := range weights {
			r -= w
			if r <= 0 {
				idx = j
				break
			}
		}
		numbers = append(numbers, pool[idx])
		total -= weights[idx]
		last := len(pool) - 1
		pool[idx] = pool[last]
		weights[idx] = weights[last]
		pool = pool[:last]
		weights = weights[:last]
	}

	return numbers, true
}

func (s *CarryoverStrategy) pickCarryover(rng *rand.Rand) []int {
	if s.expectedCount == 0 {
		return nil
	}
	shuffled := append([]int(nil), s.latest...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:s.expectedCount]
}

// Score rewards candidates whose overlap with the latest draw sits close
// to the historical average, blended with frequency strength and balance.
func (s *CarryoverStrategy) Score(numbers []int) float64 {
	if len(numbers) == 0 {
		return 0
	}

	latest := make(map[int]bool, len(s.latest))
	for _, n := range s.latest {
		latest[n] = true
	}
	actual := 0
	for _, n := range numbers {
		if latest[n] {
			actual++
		}
	}

	closeness := 1 - math.Abs(float64(actual)-s.expectedAvg)/float64(len(numbers))
	if closeness < 0 {
		closeness = 0
	}

	freqSum := 0
	for _, n := range numbers {
		freqSum += s.counts[n]
	}
	freqScore := float64(freqSum) / float64(len(numbers)*s.maxFreq)

	total := 0.4*closeness + 0.3*freqScore + 0.3*balanceBonus(numbers)
	return total * 100
}
