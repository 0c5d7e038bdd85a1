package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/liketrim/internal/youtube"
)

// VideoService is the slice of the YouTube client the cleaner depends on.
type VideoService interface {
	LikedPlaylistID(ctx context.Context) (string, error)
	LikedVideos(ctx context.Context, playlistID string) ([]youtube.PlaylistEntry, error)
	VideoDurations(ctx context.Context, ids []string) (map[string]time.Duration, error)
	RemovePlaylistItem(ctx context.Context, playlistItemID string) error
}

// Cleaner drives one liked-videos cleaning run.
type Cleaner struct {
	service VideoService
	out     io.Writer
	log     zerolog.Logger
}

// Option configures the Cleaner.
type Option func(*Cleaner)

// WithOutput sets the writer for user-facing progress output.
func WithOutput(out io.Writer) Option {
	return func(c *Cleaner) { c.out = out }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cleaner) { c.log = log }
}

// New creates a Cleaner on top of a VideoService.
func New(service VideoService, opts ...Option) *Cleaner {
	c := &Cleaner{
		service: service,
		out:     io.Discard,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one cleaning pass and returns its report. Quota exhaustion at
// any stage is not an error: the report carries the partial progress and the
// resume index. Other failures abort the run.
func (c *Cleaner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		ResumeIndex: opts.StartIndex,
		DryRun:      opts.DryRun,
	}

	playlistID, err := c.service.LikedPlaylistID(ctx)
	if err != nil {
		if errors.Is(err, youtube.ErrQuotaExceeded) {
			report.QuotaExhausted = true
			return report, nil
		}
		return nil, fmt.Errorf("failed to resolve liked-videos playlist: %w", err)
	}

	fmt.Fprintln(c.out, "Retrieving your liked videos...")
	entries, err := c.service.LikedVideos(ctx, playlistID)
	if err != nil {
		if !errors.Is(err, youtube.ErrQuotaExceeded) {
			return nil, fmt.Errorf("failed to list liked videos: %w", err)
		}
		report.QuotaExhausted = true
		fmt.Fprintln(c.out, "Quota exceeded while listing; continuing with partial results.")
	}

	entries = dedupe(entries)
	report.TotalLiked = len(entries)
	fmt.Fprintf(c.out, "Found %d liked videos.\n", len(entries))

	if len(entries) == 0 {
		return report, nil
	}

	fmt.Fprintln(c.out, "Retrieving video durations...")
	durations, err := c.service.VideoDurations(ctx, videoIDs(entries))
	if err != nil {
		if !errors.Is(err, youtube.ErrQuotaExceeded) {
			return nil, fmt.Errorf("failed to fetch video durations: %w", err)
		}
		report.QuotaExhausted = true
		fmt.Fprintln(c.out, "Quota exceeded while fetching durations; continuing with partial results.")
	}

	c.filter(report, entries, durations, opts)

	if opts.StartIndex > 0 && opts.StartIndex >= len(report.Candidates) {
		fmt.Fprintf(c.out, "Start index %d exceeds the %d videos to unlike. Nothing to do.\n",
			opts.StartIndex, len(report.Candidates))
		return report, nil
	}
	report.Pending = report.Candidates[opts.StartIndex:]

	if report.QuotaExhausted {
		// Listing was already cut short; removing against a partial,
		// possibly re-ordered view would break the resume contract.
		return report, nil
	}

	c.remove(ctx, report, opts)
	return report, nil
}

// filter selects removal candidates: strictly shorter than the threshold.
// Videos without a known duration are kept and counted.
func (c *Cleaner) filter(report *Report, entries []youtube.PlaylistEntry, durations map[string]time.Duration, opts Options) {
	for _, entry := range entries {
		d, ok := durations[entry.VideoID]
		if !ok {
			report.MissingDuration++
			fmt.Fprintf(c.out, "Warning: couldn't get duration for %q, keeping it.\n", entry.Title)
			continue
		}
		if d < opts.MinDuration {
			report.Candidates = append(report.Candidates, Candidate{
				VideoID:        entry.VideoID,
				PlaylistItemID: entry.PlaylistItemID,
				Title:          entry.Title,
				Duration:       d,
				Index:          len(report.Candidates),
			})
		}
	}

	c.log.Debug().
		Int("liked", report.TotalLiked).
		Int("candidates", len(report.Candidates)).
		Int("missing_duration", report.MissingDuration).
		Msg("Filtered liked videos")
}

// remove unlikes pending candidates up to the batch cap, stopping early on
// quota exhaustion. Dry-run mode only announces what would happen.
func (c *Cleaner) remove(ctx context.Context, report *Report, opts Options) {
	if len(report.Pending) == 0 {
		return
	}

	if opts.DryRun {
		fmt.Fprintf(c.out, "DRY RUN: %d videos would be unliked, none touched.\n", len(report.Pending))
		return
	}

	batch := report.Pending
	if opts.BatchSize > 0 && opts.BatchSize < len(batch) {
		batch = batch[:opts.BatchSize]
	}

	fmt.Fprintln(c.out, "Unliking videos...")
	for _, candidate := range batch {
		fmt.Fprintf(c.out, "Unliking: %s (%.2f minutes)\n", candidate.Title, candidate.Duration.Minutes())

		if err := c.service.RemovePlaylistItem(ctx, candidate.PlaylistItemID); err != nil {
			if errors.Is(err, youtube.ErrQuotaExceeded) {
				report.QuotaExhausted = true
				fmt.Fprintln(c.out, "Quota exceeded. Please wait for the daily reset before resuming.")
				break
			}
			fmt.Fprintf(c.out, "Error unliking %q: %v\n", candidate.Title, err)
			continue
		}

		report.Removed++
		report.ResumeIndex = opts.StartIndex + report.Removed
		c.log.Debug().Str("video", candidate.VideoID).Int("removed", report.Removed).Msg("Unliked video")
	}
}

// dedupe drops repeated playlist items so a video is removed at most once
// per run even if a page boundary shifted mid-pagination.
func dedupe(entries []youtube.PlaylistEntry) []youtube.PlaylistEntry {
	seen := make(map[string]bool, len(entries))
	result := entries[:0]
	for _, entry := range entries {
		if seen[entry.PlaylistItemID] {
			continue
		}
		seen[entry.PlaylistItemID] = true
		result = append(result, entry)
	}
	return result
}

func videoIDs(entries []youtube.PlaylistEntry) []string {
	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.VideoID] {
			continue
		}
		seen[entry.VideoID] = true
		ids = append(ids, entry.VideoID)
	}
	return ids
}
