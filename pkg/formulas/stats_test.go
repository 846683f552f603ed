package formulas

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{
			name:     "empty input",
			data:     []float64{},
			expected: 0,
		},
		{
			name:     "single value",
			data:     []float64{5},
			expected: 5,
		},
		{
			name:     "mixed values",
			data:     []float64{1, 2, 3, 4},
			expected: 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.data)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Mean() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		expected  float64
		tolerance float64
	}{
		{
			name:     "empty input",
			data:     []float64{},
			expected: 0,
		},
		{
			name:     "single value is zero not NaN",
			data:     []float64{17},
			expected: 0,
		},
		{
			name:      "population form",
			data:      []float64{2, 4, 4, 4, 5, 5, 7, 9},
			expected:  2.0, // classic population stddev example
			tolerance: 1e-9,
		},
		{
			name:      "two equal gaps",
			data:      []float64{10, 10},
			expected:  0,
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StdDev(tt.data)
			if math.IsNaN(result) {
				t.Fatalf("StdDev() returned NaN")
			}
			if math.Abs(result-tt.expected) > tt.tolerance+1e-12 {
				t.Errorf("StdDev() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	if got := Variance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("Variance() = %v, want 4", got)
	}
	if got := Variance([]float64{17}); got != 0 {
		t.Errorf("Variance(single) = %v, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{
			name:     "empty input",
			data:     []float64{},
			expected: 0,
		},
		{
			name:     "odd length",
			data:     []float64{3, 1, 2},
			expected: 2,
		},
		{
			name:     "even length interpolates",
			data:     []float64{4, 1, 3, 2},
			expected: 2.5,
		},
		{
			name:     "input left unsorted",
			data:     []float64{9, 1, 5},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Median(tt.data)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Median() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	data := []float64{9, 1, 5}
	Median(data)
	if data[0] != 9 || data[1] != 1 || data[2] != 5 {
		t.Errorf("Median() mutated its input: %v", data)
	}
}

func TestMinMaxSum(t *testing.T) {
	data := []float64{3, -1, 7, 0}

	if got := Min(data); got != -1 {
		t.Errorf("Min() = %v, want -1", got)
	}
	if got := Max(data); got != 7 {
		t.Errorf("Max() = %v, want 7", got)
	}
	if got := Sum(data); got != 9 {
		t.Errorf("Sum() = %v, want 9", got)
	}
	if got := Min(nil); got != 0 {
		t.Errorf("Min(nil) = %v, want 0", got)
	}
	if got := Max(nil); got != 0 {
		t.Errorf("Max(nil) = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{name: "below range", v: -5, expected: 0},
		{name: "in range", v: 42.5, expected: 42.5},
		{name: "above range", v: 120, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, 0, 100); got != tt.expected {
				t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.expected)
			}
		})
	}
}
