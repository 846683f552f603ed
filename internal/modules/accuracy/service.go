package accuracy

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/storage"
)

// Service wires snapshot selection, grading, and persistence together
type Service struct {
	store        *storage.Store
	highlightMin int
	log          zerolog.Logger
}

// NewService creates the accuracy service
func NewService(store *storage.Store, highlightMin int, log zerolog.Logger) *Service {
	if highlightMin <= 0 {
		highlightMin = DefaultHighlightMin
	}
	return &Service{
		store:        store,
		highlightMin: highlightMin,
		log:          log.With().Str("component", "accuracy").Logger(),
	}
}

// CheckDraw grades the best available snapshot against one actual draw
// and persists the record, replacing any earlier record for the same
// game and draw date.
func (s *Service) CheckDraw(gameType string, draw domain.DrawRecord, now time.Time) (*Record, error) {
	snapshots, err := s.loadSnapshots(gameType)
	if err != nil {
		return nil, err
	}

	var record *Record
	if sel, err := SelectSnapshot(snapshots, draw.Date); err != nil {
		// No snapshot to grade against: record the draw anyway so the
		// history stays complete, without a comparison block.
		s.log.Warn().
			Str("game", gameType).
			Str("draw_date", draw.Date.Format(DrawDateLayout)).
			Msg("No analysis snapshot available, recording draw ungraded")
		record = NewUngraded(gameType, draw, now)
	} else {
		s.log.Info().
			Str("game", gameType).
			Str("snapshot", sel.Filename).
			Str("reason", sel.Reason).
			Msg("Snapshot selected for accuracy check")
		record = Compare(sel, draw, now)
	}

	if err := s.removeRecordsFor(gameType, record.DrawDate); err != nil {
		return nil, err
	}
	filename := storage.AccuracyFilename(gameType, now)
	if err := s.store.SaveAccuracy(filename, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Records loads stored accuracy records, newest file first. A non-empty
// gameType keeps only that game's records, matched case-insensitively.
// Corrupt files are skipped with a warning.
func (s *Service) Records(gameType string) ([]*Record, error) {
	files, err := s.store.ListAccuracy()
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(gameType)
	out := make([]*Record, 0, len(files))
	for _, f := range files {
		var record Record
		if err := s.store.LoadAccuracy(f.Name, &record); err != nil {
			s.log.Warn().Err(err).Str("file", f.Name).Msg("Skipping unreadable accuracy record")
			continue
		}
		if filter != "" && strings.ToLower(record.GameType) != filter {
			continue
		}
		out = append(out, &record)
	}
	return out, nil
}

// Summary aggregates stored records, optionally filtered to one game
func (s *Service) Summary(gameType string) (Summary, error) {
	records, err := s.Records(gameType)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(records, s.highlightMin), nil
}

// Dedupe enforces the one-record-per-draw rule across the whole store,
// keeping the newest file for each (game_type, draw_date) pair. Returns
// how many duplicates were removed.
func (s *Service) Dedupe() (int, error) {
	files, err := s.store.ListAccuracy()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	removed := 0
	for _, f := range files { // newest first
		var record Record
		if err := s.store.LoadAccuracy(f.Name, &record); err != nil {
			s.log.Warn().Err(err).Str("file", f.Name).Msg("Skipping unreadable accuracy record")
			continue
		}

		key := recordKey(record.GameType, record.DrawDate)
		if seen[key] {
			if err := s.store.DeleteAccuracy(f.Name); err != nil {
				return removed, err
			}
			removed++
			continue
		}
		seen[key] = true
	}

	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("Duplicate accuracy records removed")
	}
	return removed, nil
}

// loadSnapshots reads every analysis report for one game
func (s *Service) loadSnapshots(gameType string) ([]Snapshot, error) {
	files, err := s.store.ListReports()
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for _, f := range files {
		report, err := s.store.LoadReport(f.Name)
		if err != nil {
			s.log.Warn().Err(err).Str("file", f.Name).Msg("Skipping unreadable analysis report")
			continue
		}
		if report.GameType != gameType {
			continue
		}

		snap := Snapshot{
			Filename: f.Name,
			Report:   report,
			ModTime:  f.ModTime,
		}
		if t, err := time.Parse(analysis.AnalyzedAtLayout, report.AnalyzedAt); err == nil {
			snap.AnalyzedAt = t
			snap.Stamped = true
		}
		out = append(out, snap)
	}
	return out, nil
}

// removeRecordsFor deletes stored records matching one game and draw date
func (s *Service) removeRecordsFor(gameType, drawDate string) error {
	files, err := s.store.ListAccuracy()
	if err != nil {
		return err
	}

	target := recordKey(gameType, drawDate)
	for _, f := range files {
		var record Record
		if err := s.store.LoadAccuracy(f.Name, &record); err != nil {
			continue
		}
		if recordKey(record.GameType, record.DrawDate) == target {
			if err := s.store.DeleteAccuracy(f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func recordKey(gameType, drawDate string) string {
	return strings.ToLower(gameType) + "|" + drawDate
}
