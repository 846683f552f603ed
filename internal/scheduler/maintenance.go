package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/modules/accuracy"
)

// AccuracyMaintenanceJob sweeps the accuracy store, removing superseded
// records so each (game, draw date) pair keeps exactly one. Runs daily;
// the sweep is idempotent so running it early is harmless.
type AccuracyMaintenanceJob struct {
	accuracy *accuracy.Service
	log      zerolog.Logger
}

// NewAccuracyMaintenanceJob creates the maintenance job
func NewAccuracyMaintenanceJob(svc *accuracy.Service, log zerolog.Logger) *AccuracyMaintenanceJob {
	return &AccuracyMaintenanceJob{
		accuracy: svc,
		log:      log.With().Str("job", "accuracy_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *AccuracyMaintenanceJob) Name() string {
	return "accuracy_maintenance"
}

// Run performs the dedupe sweep
func (j *AccuracyMaintenanceJob) Run() error {
	removed, err := j.accuracy.Dedupe()
	if err != nil {
		return err
	}
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("Accuracy store cleaned")
	}
	return nil
}
