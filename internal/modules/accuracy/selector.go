// Package accuracy checks past predictions against actual draws and
// aggregates how each algorithm performs over time.
package accuracy

import (
	"fmt"
	"time"

	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/modules/dataset"
)

// Selection reasons, recorded in each accuracy record's provenance so a
// reader can tell how trustworthy the comparison is.
const (
	ReasonPreDrawWithCoverage = "pre-draw-with-coverage"
	ReasonPreDraw             = "pre-draw"
	ReasonPostDrawNearest     = "post-draw-nearest"
	ReasonFilesystemLatest    = "filesystem-latest"
)

// Snapshot is one stored analysis report as seen by the selector
type Snapshot struct {
	Filename string
	Report   *analysis.Report

	// AnalyzedAt is the parsed analyzed_at stamp; Stamped is false when
	// the stamp was missing or unparsable.
	AnalyzedAt time.Time
	Stamped    bool

	// ModTime is the file's modification time, the tiebreaker of last
	// resort.
	ModTime time.Time
}

// Selection is the chosen snapshot plus why it won
type Selection struct {
	Snapshot
	Reason string
}

// SelectSnapshot picks the analysis report to grade against a draw. The
// ideal snapshot was analyzed no later than the draw day and its dataset
// coverage ends on or before the draw date, so its predictions could not
// have seen the outcome. Fallbacks degrade in order: any snapshot
// analyzed by end of the draw day, the nearest later snapshot, and
// finally the newest file on disk.
func SelectSnapshot(snapshots []Snapshot, drawDate time.Time) (*Selection, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no analysis snapshots available")
	}

	// Anything stamped within the draw day itself still counts as
	// pre-draw; only the following midnight tips a snapshot into the
	// post-draw bucket.
	drawDayEnd := drawDate.AddDate(0, 0, 1)

	var (
		preCovered *Snapshot // latest analyzed_at wins
		pre        *Snapshot // latest analyzed_at wins
		post       *Snapshot // earliest analyzed_at wins
		newest     *Snapshot // newest mtime wins
	)

	for i := range snapshots {
		snap := &snapshots[i]

		if newest == nil || snap.ModTime.After(newest.ModTime) {
			newest = snap
		}
		if !snap.Stamped {
			continue
		}

		if snap.AnalyzedAt.Before(drawDayEnd) {
			if pre == nil || snap.AnalyzedAt.After(pre.AnalyzedAt) {
				pre = snap
			}
			if coverageEndsBefore(snap.Report, drawDate) {
				if preCovered == nil || snap.AnalyzedAt.After(preCovered.AnalyzedAt) {
					preCovered = snap
				}
			}
		} else {
			if post == nil || snap.AnalyzedAt.Before(post.AnalyzedAt) {
				post = snap
			}
		}
	}

	switch {
	case preCovered != nil:
		return &Selection{Snapshot: *preCovered, Reason: ReasonPreDrawWithCoverage}, nil
	case pre != nil:
		return &Selection{Snapshot: *pre, Reason: ReasonPreDraw}, nil
	case post != nil:
		return &Selection{Snapshot: *post, Reason: ReasonPostDrawNearest}, nil
	default:
		return &Selection{Snapshot: *newest, Reason: ReasonFilesystemLatest}, nil
	}
}

// coverageEndsBefore reports whether the snapshot's dataset stops on or
// before the draw date. An unparsable coverage end disqualifies the
// snapshot from the covered tier rather than guessing.
func coverageEndsBefore(report *analysis.Report, drawDate time.Time) bool {
	if report == nil || report.DateRange.End == "" {
		return false
	}
	end, err := dataset.ParseDate(report.DateRange.End)
	if err != nil {
		return false
	}
	return !end.After(drawDate)
}
