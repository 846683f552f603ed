package accuracy

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.New(
		filepath.Join(root, "data"),
		filepath.Join(root, "analysis"),
		filepath.Join(root, "accuracy"),
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return NewService(store, DefaultHighlightMin, zerolog.Nop()), store
}

func seedReport(t *testing.T, store *storage.Store) {
	t.Helper()
	_, err := store.SaveReport(testSelection().Report)
	require.NoError(t, err)
}

func testDraw(day int) domain.DrawRecord {
	return domain.DrawRecord{
		Date:    time.Date(2023, 2, day, 0, 0, 0, 0, time.UTC),
		Numbers: []int{1, 2, 3, 10, 20, 30},
	}
}

func TestCheckDrawPersistsRecord(t *testing.T) {
	svc, store := newTestService(t)
	seedReport(t, store)

	now := time.Date(2023, 2, 11, 9, 0, 0, 0, time.UTC)
	record, err := svc.CheckDraw("Lotto 6/42", testDraw(10), now)
	require.NoError(t, err)

	assert.Equal(t, "2023-02-10", record.DrawDate)
	assert.Equal(t, ReasonPreDrawWithCoverage, record.Snapshot.SelectionReason)

	records, err := svc.Records("")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.DrawDate, records[0].DrawDate)
}

func TestCheckDrawSupersedesSameDraw(t *testing.T) {
	svc, store := newTestService(t)
	seedReport(t, store)

	_, err := svc.CheckDraw("Lotto 6/42", testDraw(10),
		time.Date(2023, 2, 11, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Re-checking the same draw replaces the earlier record.
	_, err = svc.CheckDraw("Lotto 6/42", testDraw(10),
		time.Date(2023, 2, 12, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	records, err := svc.Records("")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2023-02-12 09:00:00", records[0].CheckedAt)
}

func TestCheckDrawDifferentDatesCoexist(t *testing.T) {
	svc, store := newTestService(t)
	seedReport(t, store)

	_, err := svc.CheckDraw("Lotto 6/42", testDraw(10),
		time.Date(2023, 2, 11, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.CheckDraw("Lotto 6/42", testDraw(14),
		time.Date(2023, 2, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	records, err := svc.Records("")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCheckDrawWithoutSnapshotsRecordsUngraded(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.CheckDraw("Lotto 6/42", testDraw(10),
		time.Date(2023, 2, 11, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The draw itself is kept; the comparison block is absent.
	assert.Equal(t, "2023-02-10", record.DrawDate)
	assert.Nil(t, record.Snapshot)
	assert.Empty(t, record.Results)
	assert.Zero(t, record.BestMatch.Matches)

	records, err := svc.Records("")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Snapshot)
}

func TestRecordsGameFilter(t *testing.T) {
	svc, store := newTestService(t)

	lotto := &Record{GameType: "Lotto 6/42", DrawDate: "2023-02-10"}
	require.NoError(t, store.SaveAccuracy("accuracy_Lotto_6-42_20230211_090000.json", lotto))
	ultra := &Record{GameType: "Ultra Lotto 6/58", DrawDate: "2023-02-10"}
	require.NoError(t, store.SaveAccuracy("accuracy_Ultra_Lotto_6-58_20230211_090100.json", ultra))

	records, err := svc.Records("lotto 6/42")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Lotto 6/42", records[0].GameType)

	summary, err := svc.Summary("Ultra Lotto 6/58")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRecords)

	all, err := svc.Records("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDedupeKeepsOnePerDraw(t *testing.T) {
	svc, store := newTestService(t)

	record := &Record{GameType: "Lotto 6/42", DrawDate: "2023-02-10"}
	require.NoError(t, store.SaveAccuracy("accuracy_Lotto_6-42_20230211_090000.json", record))
	require.NoError(t, store.SaveAccuracy("accuracy_Lotto_6-42_20230212_090000.json", record))
	other := &Record{GameType: "Lotto 6/42", DrawDate: "2023-02-14"}
	require.NoError(t, store.SaveAccuracy("accuracy_Lotto_6-42_20230215_090000.json", other))

	removed, err := svc.Dedupe()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records, err := svc.Records("")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSummaryFromStore(t *testing.T) {
	svc, store := newTestService(t)
	seedReport(t, store)

	_, err := svc.CheckDraw("Lotto 6/42", testDraw(10),
		time.Date(2023, 2, 11, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	summary, err := svc.Summary("")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRecords)
	// The draw shares three numbers with the top prediction in the seeded
	// report, clearing the default highlight threshold.
	assert.NotEmpty(t, summary.BestPerformances)
}
