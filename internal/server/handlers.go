package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/fortune-lab/internal/modules/dataset"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "fortune-lab",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := map[string]interface{}{
		"status": "running",
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleListFiles lists the stored result datasets
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListResultFiles()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list result files")
		s.writeError(w, http.StatusInternalServerError, "failed to list result files")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

type analyzeRequest struct {
	Filename string `json:"filename"`
}

// handleAnalyze runs a full analysis over one result dataset and persists
// the report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	ds, err := s.loadDataset(req.Filename)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	report := s.analysis.BuildReport(ds, req.Filename, time.Now())
	saved, err := s.store.SaveReport(report)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to save report")
		s.writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":   report,
		"saved_as": saved,
	})
}

// handleAnalysisHistory lists stored analysis reports
func (s *Server) handleAnalysisHistory(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListReports()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list reports")
		s.writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"reports": files})
}

// handleGetReport returns one stored analysis report
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	report, err := s.store.LoadReport(filename)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "report not found")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleListAccuracy returns stored accuracy records, optionally
// filtered by the game query parameter.
func (s *Server) handleListAccuracy(w http.ResponseWriter, r *http.Request) {
	records, err := s.accuracy.Records(r.URL.Query().Get("game"))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list accuracy records")
		s.writeError(w, http.StatusInternalServerError, "failed to list accuracy records")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

type accuracyCheckRequest struct {
	Filename string `json:"filename"`
}

// handleAccuracyCheck grades the latest draw of a result dataset against
// the best stored snapshot.
func (s *Server) handleAccuracyCheck(w http.ResponseWriter, r *http.Request) {
	var req accuracyCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	ds, err := s.loadDataset(req.Filename)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if ds.Len() == 0 {
		s.writeError(w, http.StatusBadRequest, "dataset has no draws")
		return
	}

	record, err := s.accuracy.CheckDraw(ds.Game.Name, ds.Latest(), time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("Accuracy check failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// handleAccuracySummary aggregates accuracy records, optionally
// filtered by the game query parameter.
func (s *Server) handleAccuracySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.accuracy.Summary(r.URL.Query().Get("game"))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build accuracy summary")
		s.writeError(w, http.StatusInternalServerError, "failed to build accuracy summary")
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// handleAccuracyOverview returns the short cross-game accuracy view
func (s *Server) handleAccuracyOverview(w http.ResponseWriter, r *http.Request) {
	summary, err := s.accuracy.Summary("")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build accuracy overview")
		s.writeError(w, http.StatusInternalServerError, "failed to build accuracy overview")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_records":  summary.TotalRecords,
		"game_breakdown": summary.Games,
		"best_algorithm": summary.BestAlgorithm,
	})
}

// loadDataset reads a result file and parses it into a validated dataset
func (s *Server) loadDataset(filename string) (*dataset.Dataset, error) {
	raw, err := s.store.LoadRawFile(filename)
	if err != nil {
		return nil, err
	}
	return dataset.New(raw, s.log)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
