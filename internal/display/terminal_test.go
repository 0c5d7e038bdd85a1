package display

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gauthierbraillon/liketrim/internal/cleaner"
)

func candidates(n int) []cleaner.Candidate {
	out := make([]cleaner.Candidate, n)
	for i := range out {
		out[i] = cleaner.Candidate{
			VideoID:        fmt.Sprintf("vid-%d", i),
			PlaylistItemID: fmt.Sprintf("item-%d", i),
			Title:          fmt.Sprintf("Video %d", i),
			Duration:       90 * time.Second,
			Index:          i,
		}
	}
	return out
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{5 * time.Minute, "5"},
		{90 * time.Second, "1.50"},
		{5*time.Minute + 30*time.Second, "5.50"},
		{10 * time.Second, "0.17"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCandidate(t *testing.T) {
	f := NewTerminalFormatter()
	c := cleaner.Candidate{Title: "Short clip", Duration: 90 * time.Second}

	got := f.FormatCandidate(c)
	if got != "- Short clip (1.50 minutes)" {
		t.Errorf("unexpected candidate line: %q", got)
	}
}

func TestFormatSample_ElidesAfterFive(t *testing.T) {
	f := NewTerminalFormatter()

	got := f.FormatSample(candidates(8))
	if strings.Count(got, "- Video") != 5 {
		t.Errorf("sample should list 5 candidates, got:\n%s", got)
	}
	if !strings.Contains(got, "... and 3 more") {
		t.Errorf("sample should elide the remaining 3, got:\n%s", got)
	}
}

func TestFormatSample_ShortList(t *testing.T) {
	f := NewTerminalFormatter()

	got := f.FormatSample(candidates(2))
	if strings.Contains(got, "more") {
		t.Errorf("short sample should not elide anything, got:\n%s", got)
	}
}

func TestFormatSample_Empty(t *testing.T) {
	f := NewTerminalFormatter()

	got := f.FormatSample(nil)
	if !strings.Contains(got, "No videos under the specified duration") {
		t.Errorf("empty sample should say there is nothing to do, got:\n%s", got)
	}
}

func TestFormatHeader(t *testing.T) {
	f := NewTerminalFormatter()

	got := f.FormatHeader(5*time.Minute, 0)
	if !strings.Contains(got, "Minimum video duration: 5 minutes") {
		t.Errorf("header should show the threshold, got:\n%s", got)
	}
	if strings.Contains(got, "index") {
		t.Errorf("header should omit the index line for fresh runs, got:\n%s", got)
	}

	got = f.FormatHeader(5*time.Minute, 12)
	if !strings.Contains(got, "Starting from index: 12") {
		t.Errorf("header should show the resume index, got:\n%s", got)
	}
}

func TestFormatSummary_DryRun(t *testing.T) {
	f := NewTerminalFormatter()
	report := &cleaner.Report{Candidates: candidates(3), Pending: candidates(3), DryRun: true}

	got := f.FormatSummary(report, 5*time.Minute)
	if !strings.Contains(got, "DRY RUN: No videos were unliked.") {
		t.Errorf("dry-run summary should say nothing was unliked, got:\n%s", got)
	}
}

func TestFormatSummary_ReportsRemovals(t *testing.T) {
	f := NewTerminalFormatter()
	report := &cleaner.Report{Candidates: candidates(3), Pending: candidates(3), Removed: 3}

	got := f.FormatSummary(report, 5*time.Minute)
	if !strings.Contains(got, "Found 3 videos under 5 minutes.") {
		t.Errorf("summary should show the candidate count, got:\n%s", got)
	}
	if !strings.Contains(got, "Successfully unliked 3 videos.") {
		t.Errorf("summary should show the removal count, got:\n%s", got)
	}
}

func TestFormatResumeHint(t *testing.T) {
	f := NewTerminalFormatter()
	report := &cleaner.Report{ResumeIndex: 12, QuotaExhausted: true}

	got := f.FormatResumeHint(report, 5*time.Minute)
	if !strings.Contains(got, "--start-index 12") {
		t.Errorf("resume hint should carry the resume index, got:\n%s", got)
	}
	if !strings.Contains(got, "--min-duration 5") {
		t.Errorf("resume hint should carry the threshold, got:\n%s", got)
	}
	if !strings.Contains(strings.ToLower(got), "quota") {
		t.Errorf("resume hint should mention the quota, got:\n%s", got)
	}
}
