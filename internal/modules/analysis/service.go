package analysis

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
	"github.com/aristath/fortune-lab/internal/modules/prediction/scorers"
	"github.com/aristath/fortune-lab/internal/modules/temporal"
	"github.com/aristath/fortune-lab/internal/modules/winners"
)

// AnalyzedAtLayout is the timestamp format written into reports. The
// accuracy selector parses it back when ordering snapshots.
const AnalyzedAtLayout = "2006-01-02 15:04:05"

// highlyFrequentRatio marks a number as highly frequent when its count
// exceeds this multiple of the uniform expectation.
const highlyFrequentRatio = 1.2

// DateRange bounds the draws a report covers
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Predictions holds the four ranked candidate lists, one per strategy.
type Predictions struct {
	Top      []prediction.Candidate `json:"top_predictions"`
	Winning  []prediction.Candidate `json:"winning_predictions"`
	Pattern  []prediction.Candidate `json:"pattern_predictions"`
	Ultimate []prediction.Candidate `json:"ultimate_predictions"`
}

// Report is the full analysis artifact persisted per run
type Report struct {
	GameType    string                 `json:"game_type"`
	SourceFile  string                 `json:"source_file"`
	AnalyzedAt  string                 `json:"analyzed_at"`
	DateRange   DateRange              `json:"date_range"`
	TotalDraws  int                    `json:"total_draws"`
	Overall     frequency.Profile      `json:"overall_statistics"`
	Temporal    temporal.Patterns      `json:"temporal_patterns"`
	Winners     winners.Analysis       `json:"winner_analysis"`
	Carryover   Carryover              `json:"consecutive_draw_analysis"`
	Days        map[string]DayAnalysis `json:"day_analysis"`
	Predictions Predictions            `json:"predictions"`
	Charts      ChartData              `json:"chart_data"`
}

// Service builds reports. The random source is injected once at
// construction so a seeded service produces identical reports.
type Service struct {
	rng             *rand.Rand
	predictionCount int
	log             zerolog.Logger
}

// NewService creates an analysis service. predictionCount is the length
// of each prediction list.
func NewService(rng *rand.Rand, predictionCount int, log zerolog.Logger) *Service {
	return &Service{
		rng:             rng,
		predictionCount: predictionCount,
		log:             log.With().Str("component", "analysis").Logger(),
	}
}

// BuildReport runs every analyzer over the dataset and assembles the
// report. now stamps analyzed_at and anchors the winner cadence.
func (s *Service) BuildReport(ds *dataset.Dataset, sourceFile string, now time.Time) *Report {
	start := time.Now()

	overall := frequency.Compute(ds.Draws, ds.Game)
	temporalPatterns := temporal.Analyze(ds)
	winnerAnalysis := winners.Analyze(ds, now)
	carryover := AnalyzeCarryover(ds)

	report := &Report{
		GameType:    ds.Game.Name,
		SourceFile:  sourceFile,
		AnalyzedAt:  now.Format(AnalyzedAtLayout),
		DateRange:   DateRange{Start: ds.StartDate, End: ds.EndDate},
		TotalDraws:  ds.Len(),
		Overall:     overall,
		Temporal:    temporalPatterns,
		Winners:     winnerAnalysis,
		Carryover:   carryover,
		Days:        analyzeDays(ds, s.rng, s.predictionCount, s.log),
		Predictions: s.generatePredictions(ds, overall, temporalPatterns, winnerAnalysis, carryover),
		Charts:      buildChartData(ds, overall),
	}

	s.log.Info().
		Str("game", ds.Game.Name).
		Int("draws", ds.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis report built")
	return report
}

func (s *Service) generatePredictions(
	ds *dataset.Dataset,
	overall frequency.Profile,
	temporalPatterns temporal.Patterns,
	winnerAnalysis winners.Analysis,
	carryover Carryover,
) Predictions {
	gen := prediction.NewGenerator(ds.Game, s.rng, s.log)
	counts := overall.NumberFrequency
	winCounts := frequency.Count(ds.WinningDraws())

	var preds Predictions

	freqStrategy := scorers.NewFrequencyStrategy(counts, ds.Game)
	preds.Top = gen.Generate(freqStrategy, s.predictionCount, 0)

	winStrategy := scorers.NewWinnerStrategy(winCounts, counts, winnerAnalysis.EvenOddPatterns.MostCommon, ds.Game)
	preds.Winning = gen.Generate(winStrategy, s.predictionCount, 0)

	if ds.Len() >= 2 {
		carryStrategy := scorers.NewCarryoverStrategy(
			ds.Latest().Numbers, carryover.AverageCarryover, counts, ds.Game)
		if carryStrategy != nil {
			preds.Pattern = gen.Generate(carryStrategy, s.predictionCount,
				s.predictionCount*scorers.CarryoverAttemptFactor)
		}
	}

	recent := ds.Recent(scorers.RecentWindow())
	ultimate := scorers.NewUltimateStrategy(scorers.UltimateInputs{
		Counts:         counts,
		RecentCounts:   frequency.Count(recent),
		WinCounts:      winCounts,
		Consistency:    temporal.NormalizedConsistency(temporal.ConsistencyScores(ds)),
		HighlyFrequent: highlyFrequent(counts, ds),
		ConsistentSet:  temporalPatterns.YearOverYear.ConsistentSet(),
		RecentEvenOdd:  frequency.Distribution(recent, frequency.EvenOddPattern).MostCommon,
		RecentHighLow: frequency.Distribution(recent, func(numbers []int) string {
			return frequency.HighLowPattern(numbers, ds.Game.MidPoint())
		}).MostCommon,
		AverageSum: overall.Sum.Average,
	}, ds.Game)
	preds.Ultimate = gen.Generate(ultimate, s.predictionCount, 0)

	return preds
}

// highlyFrequent flags numbers drawn noticeably more often than a uniform
// distribution would produce.
func highlyFrequent(counts map[int]int, ds *dataset.Dataset) map[int]bool {
	if ds.Game.MaxNumber == 0 || ds.Len() == 0 {
		return nil
	}
	expected := float64(ds.Game.NumbersToPick*ds.Len()) / float64(ds.Game.MaxNumber)

	out := make(map[int]bool)
	for n, c := range counts {
		if float64(c) > highlyFrequentRatio*expected {
			out[n] = true
		}
	}
	return out
}
