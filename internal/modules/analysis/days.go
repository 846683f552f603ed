package analysis

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/internal/modules/prediction"
	"github.com/aristath/fortune-lab/internal/modules/prediction/scorers"
)

// DayAnalysis profiles the draws held on one weekday and carries
// predictions generated from that weekday's history alone.
type DayAnalysis struct {
	Day          string                  `json:"day"`
	TotalDraws   int                     `json:"total_draws"`
	MostFrequent []frequency.NumberCount `json:"most_frequent_numbers"`
	HotNumbers   []int                   `json:"hot_numbers"`
	EvenOdd      frequency.PatternDist   `json:"even_odd_analysis"`
	Sum          frequency.SumStats      `json:"sum_analysis"`
	Predictions  []prediction.Candidate  `json:"predictions"`
}

// analyzeDays builds a per-weekday breakdown, Monday first. Days with no
// draws are omitted; each present day gets frequency-strategy predictions
// scoped to its own draws.
func analyzeDays(ds *dataset.Dataset, rng *rand.Rand, predictionCount int, log zerolog.Logger) map[string]DayAnalysis {
	gen := prediction.NewGenerator(ds.Game, rng, log)

	out := make(map[string]DayAnalysis)
	for _, day := range domain.DaysOfWeek {
		draws := ds.ByDay(day)
		if len(draws) == 0 {
			continue
		}

		profile := frequency.Compute(draws, ds.Game)
		strategy := scorers.NewFrequencyStrategy(profile.NumberFrequency, ds.Game)

		out[day] = DayAnalysis{
			Day:          day,
			TotalDraws:   len(draws),
			MostFrequent: profile.MostFrequent,
			HotNumbers:   profile.HotNumbers,
			EvenOdd:      profile.EvenOdd,
			Sum:          profile.Sum,
			Predictions:  gen.Generate(strategy, predictionCount, 0),
		}
	}
	return out
}
