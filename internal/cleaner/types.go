// Package cleaner removes short videos from the liked-videos playlist.
//
// A run is one linear pass: resolve the playlist, list its items, fetch
// durations, filter by threshold, then remove the filtered candidates until
// done or the API quota runs out. Progress is reported so an exhausted run
// can resume from an index on the next quota day.
package cleaner

import "time"

// Candidate is a liked video selected for removal. Index is the candidate's
// position in the filtered list and increases monotonically within a run;
// it is the unit the --start-index resume flag counts in.
type Candidate struct {
	VideoID        string
	PlaylistItemID string
	Title          string
	Duration       time.Duration
	Index          int
}

// Options configures a cleaning run.
type Options struct {
	// MinDuration is the keep threshold. Videos strictly shorter are
	// removed; a video of exactly this duration is kept.
	MinDuration time.Duration

	// DryRun reports candidates without performing any removal.
	DryRun bool

	// BatchSize caps removals per run. Zero or negative means no cap.
	BatchSize int

	// StartIndex skips this many candidates, resuming an earlier run.
	// The list is re-fetched each run without a snapshot, so resuming
	// assumes the playlist order did not change in between.
	StartIndex int
}

// Report summarizes a cleaning run.
type Report struct {
	// TotalLiked is the number of liked videos retrieved (possibly a
	// partial count when the quota ran out during listing).
	TotalLiked int

	// MissingDuration counts videos kept because no duration was
	// available for them.
	MissingDuration int

	// Candidates is the full filtered list, before StartIndex is applied.
	Candidates []Candidate

	// Pending is the candidate slice this run set out to process:
	// Candidates[StartIndex:], before the batch cap.
	Pending []Candidate

	// Removed is the number of videos actually unliked. Always zero in
	// dry-run mode.
	Removed int

	// ResumeIndex is the --start-index value that continues this run:
	// StartIndex + Removed.
	ResumeIndex int

	// QuotaExhausted is set when the run stopped early because the API
	// quota ran out.
	QuotaExhausted bool

	// DryRun mirrors Options.DryRun for the presentation layer.
	DryRun bool
}

// Done reports whether every pending candidate was handled this run.
func (r *Report) Done() bool {
	return r.Removed == len(r.Pending)
}
