// Package scorers holds the four prediction strategies. Each one pairs a
// weighted sampler with a scoring function; the shared generation loop
// lives in the prediction package.
package scorers

import (
	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
)

// balanceBonus rewards an even/odd split close to half and half.
// A perfect split scores 1.0, all-even or all-odd scores 0.5.
func balanceBonus(numbers []int) float64 {
	if len(numbers) == 0 {
		return 0
	}
	even := frequency.EvenCount(numbers)
	half := float64(len(numbers)) / 2
	diff := float64(even) - half
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/float64(len(numbers))
}

// spreadBonus rewards combinations spanning a wide slice of the number
// range, measured as (max-min)/maxNumber.
func spreadBonus(numbers []int, game domain.GameConfig) float64 {
	if len(numbers) < 2 || game.MaxNumber == 0 {
		return 0
	}
	lo, hi := numbers[0], numbers[0]
	for _, n := range numbers[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return float64(hi-lo) / float64(game.MaxNumber)
}

func maxCount(counts map[int]int) int {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max
}
