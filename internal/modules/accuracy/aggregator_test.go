package accuracy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradedRecord(gameType, drawDate string, topMatches ...int) *Record {
	record := &Record{
		GameType:    gameType,
		DrawDate:    drawDate,
		DrawNumbers: []int{1, 2, 3, 4, 5, 6},
		Results:     make(map[string][]Comparison),
	}
	for i, m := range topMatches {
		matched := make([]int, m)
		for j := range matched {
			matched[j] = j + 1
		}
		c := Comparison{Rank: i + 1, Predicted: []int{1, 2, 3, 4, 5, 6}, Matched: matched, Matches: m}
		record.Results[AlgorithmTop] = append(record.Results[AlgorithmTop], c)
		if m > record.BestMatch.Matches {
			record.BestMatch = BestMatch{Algorithm: AlgorithmTop, Rank: i + 1, Matches: m}
		}
	}
	return record
}

func TestAggregateAlgorithmStats(t *testing.T) {
	records := []*Record{
		gradedRecord("Lotto 6/42", "2023-02-07", 2, 0),
		gradedRecord("Lotto 6/42", "2023-02-14", 4, 1),
	}

	summary := Aggregate(records, DefaultHighlightMin)

	assert.Equal(t, 2, summary.TotalRecords)

	top := summary.Algorithms[AlgorithmTop]
	assert.Equal(t, 2, top.Records)
	assert.Equal(t, 4, top.Comparisons)
	assert.Equal(t, 7, top.TotalMatches)
	assert.InDelta(t, 1.75, top.AverageMatches, 1e-9)
	assert.Equal(t, 4, top.BestMatches)
	assert.Equal(t, 0, top.JackpotHits)
	// Every bin from zero to the draw size is present, zeros included.
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 0, 4: 1, 5: 0, 6: 0}, top.Distribution)

	// Lists that never appeared stay at zero.
	assert.Equal(t, 0, summary.Algorithms[AlgorithmPattern].Comparisons)
}

func TestAggregateNearPerfectAndNearMissHits(t *testing.T) {
	records := []*Record{
		gradedRecord("Lotto 6/42", "2023-02-07", 5, 4, 4),
		gradedRecord("Lotto 6/42", "2023-02-14", 6, 3),
	}

	summary := Aggregate(records, DefaultHighlightMin)

	top := summary.Algorithms[AlgorithmTop]
	assert.Equal(t, 1, top.JackpotHits)     // six of six
	assert.Equal(t, 1, top.NearPerfectHits) // five of six
	assert.Equal(t, 2, top.NearMissHits)    // four of six
}

func TestAggregateBestPerformancesGatedByThreshold(t *testing.T) {
	records := []*Record{
		gradedRecord("Lotto 6/42", "2023-02-07", 2, 3),
		gradedRecord("Lotto 6/42", "2023-02-14", 5),
	}

	summary := Aggregate(records, 3)

	require.Len(t, summary.BestPerformances, 2)
	// Sorted by matches descending.
	assert.Equal(t, 5, summary.BestPerformances[0].Matches)
	assert.Equal(t, "2023-02-14", summary.BestPerformances[0].DrawDate)
	assert.Equal(t, 3, summary.BestPerformances[1].Matches)
}

func TestAggregateJackpotHit(t *testing.T) {
	records := []*Record{gradedRecord("Lotto 6/42", "2023-02-07", 6)}

	summary := Aggregate(records, DefaultHighlightMin)

	assert.Equal(t, 1, summary.Algorithms[AlgorithmTop].JackpotHits)
	assert.Equal(t, 1, summary.Games["Lotto 6/42"].JackpotHits)
}

func TestAggregateRecentLimitAndOrder(t *testing.T) {
	var records []*Record
	dates := []string{
		"2023-02-01", "2023-02-02", "2023-02-03", "2023-02-04", "2023-02-05",
		"2023-02-06", "2023-02-07", "2023-02-08", "2023-02-09", "2023-02-10",
		"2023-02-11", "2023-02-12",
	}
	for _, d := range dates {
		records = append(records, gradedRecord("Lotto 6/42", d, 1))
	}

	summary := Aggregate(records, DefaultHighlightMin)

	require.Len(t, summary.Recent, recentLimit)
	assert.Equal(t, "2023-02-12", summary.Recent[0].DrawDate)
	assert.Equal(t, "2023-02-03", summary.Recent[recentLimit-1].DrawDate)
}

func TestBestAlgorithmTieBreaksOnJackpots(t *testing.T) {
	algorithms := map[string]AlgorithmStats{
		AlgorithmTop:     {Comparisons: 2, AverageMatches: 2.0, JackpotHits: 0},
		AlgorithmWinning: {Comparisons: 2, AverageMatches: 2.0, JackpotHits: 1},
		AlgorithmPattern: {Comparisons: 2, AverageMatches: 1.0},
	}
	assert.Equal(t, AlgorithmWinning, bestAlgorithm(algorithms))
}

func TestBestAlgorithmEmpty(t *testing.T) {
	assert.Empty(t, bestAlgorithm(map[string]AlgorithmStats{}))
}

func TestGameBreakdownAverages(t *testing.T) {
	records := []*Record{
		gradedRecord("Lotto 6/42", "2023-02-07", 2),
		gradedRecord("Lotto 6/42", "2023-02-14", 4),
		gradedRecord("Ultra Lotto 6/58", "2023-02-14", 1),
	}

	summary := Aggregate(records, DefaultHighlightMin)

	require.Len(t, summary.Games, 2)
	assert.Equal(t, 2, summary.Games["Lotto 6/42"].Records)
	assert.InDelta(t, 3.0, summary.Games["Lotto 6/42"].AverageBestMatches, 1e-9)
	assert.InDelta(t, 1.0, summary.Games["Ultra Lotto 6/58"].AverageBestMatches, 1e-9)
}
