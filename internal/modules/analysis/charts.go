package analysis

import (
	"sort"
	"strconv"

	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
)

// ChartSeries is one labelled series ready for a frontend chart
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ChartData packages the report's plottable views: the full per-number
// frequency bar series, pattern histograms, and the sum trend of the most
// recent draws (oldest to newest so it reads left to right).
type ChartData struct {
	NumberFrequency ChartSeries `json:"number_frequency"`
	EvenOdd         ChartSeries `json:"even_odd_distribution"`
	HighLow         ChartSeries `json:"high_low_distribution"`
	SumTrend        ChartSeries `json:"sum_trend"`
}

// sumTrendWindow bounds the sum-trend series so charts stay readable on
// long histories.
const sumTrendWindow = 30

func buildChartData(ds *dataset.Dataset, profile frequency.Profile) ChartData {
	return ChartData{
		NumberFrequency: numberFrequencySeries(profile.NumberFrequency, ds.Game.MaxNumber),
		EvenOdd:         patternSeries(profile.EvenOdd.Patterns),
		HighLow:         patternSeries(profile.HighLow.Patterns),
		SumTrend:        sumTrendSeries(ds),
	}
}

func numberFrequencySeries(counts map[int]int, maxNumber int) ChartSeries {
	s := ChartSeries{
		Labels: make([]string, 0, maxNumber),
		Values: make([]int, 0, maxNumber),
	}
	for n := 1; n <= maxNumber; n++ {
		s.Labels = append(s.Labels, strconv.Itoa(n))
		s.Values = append(s.Values, counts[n])
	}
	return s
}

func patternSeries(patterns map[string]int) ChartSeries {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ChartSeries{Labels: keys, Values: make([]int, 0, len(keys))}
	for _, k := range keys {
		s.Values = append(s.Values, patterns[k])
	}
	return s
}

func sumTrendSeries(ds *dataset.Dataset) ChartSeries {
	recent := ds.Recent(sumTrendWindow)

	var s ChartSeries
	for i := len(recent) - 1; i >= 0; i-- {
		s.Labels = append(s.Labels, recent[i].DateRaw)
		s.Values = append(s.Values, recent[i].Sum())
	}
	return s
}
