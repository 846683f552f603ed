package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fortune-lab/internal/config"
	"github.com/aristath/fortune-lab/internal/modules/accuracy"
	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/storage"
)

const testResultFile = "result_Lotto_6-42_20230131.json"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	store, err := storage.New(
		filepath.Join(root, "data"),
		filepath.Join(root, "analysis"),
		filepath.Join(root, "accuracy"),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	seedResultFile(t, filepath.Join(root, "data", testResultFile))

	cfg := &config.Config{Port: 0, PredictionCount: 3}
	return New(Config{
		Port:     0,
		Log:      zerolog.Nop(),
		Store:    store,
		Analysis: analysis.NewService(rand.New(rand.NewSource(1)), cfg.PredictionCount, zerolog.Nop()),
		Accuracy: accuracy.NewService(store, accuracy.DefaultHighlightMin, zerolog.Nop()),
		Config:   cfg,
		DevMode:  true,
	})
}

func seedResultFile(t *testing.T, path string) {
	t.Helper()
	data := map[string]any{
		"game_type":   "Lotto 6/42",
		"start_date":  "2023-01-02",
		"end_date":    "2023-01-30",
		"total_draws": 5,
		"results": []map[string]any{
			{"date": "01/30/2023", "numbers": []int{4, 9, 12, 21, 28, 42}},
			{"date": "01/23/2023", "numbers": []int{3, 5, 16, 24, 33, 39}},
			{"date": "01/16/2023", "numbers": []int{2, 8, 12, 19, 27, 35}},
			{"date": "01/09/2023", "numbers": []int{5, 12, 14, 22, 30, 41}},
			{"date": "01/02/2023", "numbers": []int{1, 5, 12, 20, 33, 40}},
		},
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestListFiles(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/files", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Files []storage.ResultFileInfo `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Files, 1)
	assert.Equal(t, "Lotto 6/42", body.Files[0].GameType)
}

func TestAnalyzeAndFetchReport(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/analyze", analyzeRequest{Filename: testResultFile})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		SavedAs string          `json:"saved_as"`
		Report  analysis.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.SavedAs)
	assert.Equal(t, "Lotto 6/42", body.Report.GameType)
	assert.Len(t, body.Report.Predictions.Top, 3)

	rec = doRequest(s, http.MethodGet, fmt.Sprintf("/api/reports/%s", body.SavedAs), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/analysis-history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Reports []storage.FileInfo `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Reports, 1)
}

func TestAnalyzeValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/analyze", analyzeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/analyze", analyzeRequest{Filename: "result_missing.json"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccuracyCheckFlow(t *testing.T) {
	s := newTestServer(t)

	// An accuracy check needs a snapshot first.
	rec := doRequest(s, http.MethodPost, "/api/analyze", analyzeRequest{Filename: testResultFile})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/accuracy/check", accuracyCheckRequest{Filename: testResultFile})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record accuracy.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "Lotto 6/42", record.GameType)
	assert.Equal(t, "2023-01-30", record.DrawDate)
	require.NotNil(t, record.Snapshot)
	assert.NotEmpty(t, record.Snapshot.SelectionReason)

	rec = doRequest(s, http.MethodGet, "/api/accuracy/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The game filter narrows the listing.
	rec = doRequest(s, http.MethodGet, "/api/accuracy/?game=Ultra+Lotto+6%2F58", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered struct {
		Records []accuracy.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	assert.Empty(t, filtered.Records)

	rec = doRequest(s, http.MethodGet, "/api/accuracy/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary accuracy.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalRecords)

	rec = doRequest(s, http.MethodGet, "/api/accuracy/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAccuracyCheckWithoutSnapshot(t *testing.T) {
	s := newTestServer(t)

	// No analysis has run yet: the draw is still recorded, without a
	// comparison block.
	rec := doRequest(s, http.MethodPost, "/api/accuracy/check", accuracyCheckRequest{Filename: testResultFile})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record accuracy.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "2023-01-30", record.DrawDate)
	assert.Nil(t, record.Snapshot)
	assert.Empty(t, record.Results)
}
