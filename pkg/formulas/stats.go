package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation of a slice of values.
// Population form (divide by n) keeps single-sample inputs at 0 instead of NaN,
// which the cadence and consistency calculations rely on.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// Variance calculates the population variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.PopVariance(data, nil)
}

// Median calculates the median, interpolating between the two middle
// values for even-length input
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}

// Min returns the smallest value in data, or 0 for empty input
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in data, or 0 for empty input
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	max := data[0]
	for _, v := range data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values in data
func Sum(data []float64) float64 {
	var total float64
	for _, v := range data {
		total += v
	}
	return total
}

// Clamp limits v to the [lo, hi] range
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2 rounds to two decimal places, matching report formatting
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
