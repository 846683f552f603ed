package accuracy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fortune-lab/internal/modules/analysis"
)

func snap(filename, analyzedAt, coverageEnd string, modTime time.Time) Snapshot {
	s := Snapshot{
		Filename: filename,
		Report: &analysis.Report{
			GameType:   "Lotto 6/42",
			AnalyzedAt: analyzedAt,
			DateRange:  analysis.DateRange{End: coverageEnd},
		},
		ModTime: modTime,
	}
	if t, err := time.Parse(analysis.AnalyzedAtLayout, analyzedAt); err == nil {
		s.AnalyzedAt = t
		s.Stamped = true
	}
	return s
}

func TestSelectSnapshotPrefersPreDrawWithCoverage(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	snapshots := []Snapshot{
		// Pre-draw, coverage ends before the draw: the ideal tier.
		snap("a.json", "2023-02-01 08:00:00", "2023-01-31", mt),
		// Newer pre-draw but coverage extends past the draw date.
		snap("b.json", "2023-02-09 08:00:00", "2023-02-11", mt),
		// Post-draw.
		snap("c.json", "2023-02-12 08:00:00", "2023-02-11", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "a.json", sel.Filename)
	assert.Equal(t, ReasonPreDrawWithCoverage, sel.Reason)
}

func TestSelectSnapshotCoverageUpToDrawDateCounts(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	// Analyzed the day before the draw, coverage ending exactly on the
	// draw date: still the ideal tier.
	snapshots := []Snapshot{
		snap("a.json", "2023-02-09 08:00:00", "2023-02-10", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, ReasonPreDrawWithCoverage, sel.Reason)
}

func TestSelectSnapshotAnalyzedOnDrawDayIsPreDraw(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	// A morning-of-the-draw snapshot counts as pre-draw; only the next
	// midnight tips it into the post-draw bucket.
	snapshots := []Snapshot{
		snap("morning.json", "2023-02-10 08:00:00", "2023-02-09", mt),
		snap("nextday.json", "2023-02-11 00:00:00", "2023-02-10", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "morning.json", sel.Filename)
	assert.Equal(t, ReasonPreDrawWithCoverage, sel.Reason)
}

func TestSelectSnapshotLatestAmongCovered(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	snapshots := []Snapshot{
		snap("old.json", "2023-01-15 08:00:00", "2023-01-14", mt),
		snap("new.json", "2023-02-05 08:00:00", "2023-02-04", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "new.json", sel.Filename)
}

func TestSelectSnapshotFallsBackToPreDraw(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	snapshots := []Snapshot{
		// Coverage includes the draw, so only the plain pre-draw tier fits.
		snap("a.json", "2023-02-01 08:00:00", "2023-02-15", mt),
		snap("b.json", "2023-02-08 08:00:00", "2023-02-15", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "b.json", sel.Filename)
	assert.Equal(t, ReasonPreDraw, sel.Reason)
}

func TestSelectSnapshotPostDrawPicksEarliest(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	mt := time.Now()

	snapshots := []Snapshot{
		snap("late.json", "2023-03-01 08:00:00", "2023-02-28", mt),
		snap("soon.json", "2023-02-11 08:00:00", "2023-02-10", mt),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "soon.json", sel.Filename)
	assert.Equal(t, ReasonPostDrawNearest, sel.Reason)
}

func TestSelectSnapshotFilesystemFallback(t *testing.T) {
	draw := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)

	snapshots := []Snapshot{
		snap("older.json", "garbage", "", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)),
		snap("newer.json", "", "", time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)),
	}

	sel, err := SelectSnapshot(snapshots, draw)
	require.NoError(t, err)
	assert.Equal(t, "newer.json", sel.Filename)
	assert.Equal(t, ReasonFilesystemLatest, sel.Reason)
}

func TestSelectSnapshotEmpty(t *testing.T) {
	_, err := SelectSnapshot(nil, time.Now())
	assert.Error(t, err)
}
