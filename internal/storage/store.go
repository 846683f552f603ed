// Package storage persists the three artifact families as JSON files:
// scraped result datasets, analysis reports, and accuracy records.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
)

const (
	resultPrefix   = "result_"
	analysisPrefix = "analysis_"
	accuracyPrefix = "accuracy_"

	// stampLayout timestamps analysis and accuracy filenames
	stampLayout = "20060102_150405"
)

// FileInfo describes one stored artifact
type FileInfo struct {
	Name    string    `json:"filename"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
}

// ResultFileInfo pairs a result file with the dataset header inside it
type ResultFileInfo struct {
	FileInfo
	GameType   string `json:"game_type"`
	TotalDraws int    `json:"total_draws"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Store reads and writes artifacts under three directories. All lookups
// reject path separators in filenames so callers cannot escape the roots.
type Store struct {
	dataPath     string
	analysisPath string
	accuracyPath string
	log          zerolog.Logger
}

// New creates the store, creating any missing directories
func New(dataPath, analysisPath, accuracyPath string, log zerolog.Logger) (*Store, error) {
	for _, dir := range []string{dataPath, analysisPath, accuracyPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory %s: %w", dir, err)
		}
	}
	return &Store{
		dataPath:     dataPath,
		analysisPath: analysisPath,
		accuracyPath: accuracyPath,
		log:          log.With().Str("component", "storage").Logger(),
	}, nil
}

// GameSlug converts a game label into its filename form: spaces become
// underscores, slashes become dashes. "Ultra Lotto 6/58" -> "Ultra_Lotto_6-58".
func GameSlug(gameType string) string {
	slug := strings.ReplaceAll(gameType, " ", "_")
	return strings.ReplaceAll(slug, "/", "-")
}

// ListResultFiles returns the result datasets with their headers, newest
// modification first. Unreadable files are skipped with a warning.
func (s *Store) ListResultFiles() ([]ResultFileInfo, error) {
	infos, err := s.list(s.dataPath, resultPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]ResultFileInfo, 0, len(infos))
	for _, info := range infos {
		raw, err := s.LoadRawFile(info.Name)
		if err != nil {
			s.log.Warn().Err(err).Str("file", info.Name).Msg("Skipping unreadable result file")
			continue
		}
		out = append(out, ResultFileInfo{
			FileInfo:   info,
			GameType:   raw.GameType,
			TotalDraws: raw.TotalDraws,
			StartDate:  raw.StartDate,
			EndDate:    raw.EndDate,
		})
	}
	return out, nil
}

// LoadRawFile reads one result dataset by filename
func (s *Store) LoadRawFile(filename string) (dataset.RawFile, error) {
	var raw dataset.RawFile
	if err := s.readJSON(s.dataPath, filename, &raw); err != nil {
		return dataset.RawFile{}, err
	}
	return raw, nil
}

// SaveReport writes an analysis report, deriving the filename from the
// source result file and the analyzed_at stamp. Returns the filename.
func (s *Store) SaveReport(report *analysis.Report) (string, error) {
	base := strings.TrimSuffix(report.SourceFile, filepath.Ext(report.SourceFile))

	stamp := time.Now().Format(stampLayout)
	if t, err := time.Parse(analysis.AnalyzedAtLayout, report.AnalyzedAt); err == nil {
		stamp = t.Format(stampLayout)
	}

	filename := fmt.Sprintf("%s%s_%s.json", analysisPrefix, base, stamp)
	if err := s.writeJSON(s.analysisPath, filename, report); err != nil {
		return "", err
	}
	s.log.Info().Str("file", filename).Msg("Analysis report saved")
	return filename, nil
}

// ListReports returns stored analysis files, newest modification first
func (s *Store) ListReports() ([]FileInfo, error) {
	return s.list(s.analysisPath, analysisPrefix)
}

// LoadReport reads one analysis report by filename
func (s *Store) LoadReport(filename string) (*analysis.Report, error) {
	var report analysis.Report
	if err := s.readJSON(s.analysisPath, filename, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveAccuracy writes one accuracy record under the given filename
func (s *Store) SaveAccuracy(filename string, record any) error {
	if err := s.writeJSON(s.accuracyPath, filename, record); err != nil {
		return err
	}
	s.log.Info().Str("file", filename).Msg("Accuracy record saved")
	return nil
}

// AccuracyFilename builds accuracy_{slug}_{stamp}.json for a game
func AccuracyFilename(gameType string, at time.Time) string {
	return fmt.Sprintf("%s%s_%s.json", accuracyPrefix, GameSlug(gameType), at.Format(stampLayout))
}

// ListAccuracy returns stored accuracy files, newest modification first
func (s *Store) ListAccuracy() ([]FileInfo, error) {
	return s.list(s.accuracyPath, accuracyPrefix)
}

// LoadAccuracy reads one accuracy record into out
func (s *Store) LoadAccuracy(filename string, out any) error {
	return s.readJSON(s.accuracyPath, filename, out)
}

// DeleteAccuracy removes one accuracy record
func (s *Store) DeleteAccuracy(filename string) error {
	if err := validateName(filename); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.accuracyPath, filename)); err != nil {
		return fmt.Errorf("deleting accuracy record %s: %w", filename, err)
	}
	s.log.Info().Str("file", filename).Msg("Accuracy record deleted")
	return nil
}

func (s *Store) list(dir, prefix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var out []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

func (s *Store) readJSON(dir, filename string, out any) error {
	if err := validateName(filename); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}
	return nil
}

func (s *Store) writeJSON(dir, filename string, v any) error {
	if err := validateName(filename); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

func validateName(filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid filename %q", filename)
	}
	return nil
}
