// Package display provides terminal output formatting for liketrim.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/liketrim/internal/cleaner"
)

// sampleSize is how many candidates are listed before eliding the rest.
const sampleSize = 5

// TerminalFormatter formats cleaning-run output for the terminal.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatHeader formats the run banner.
func (f *TerminalFormatter) FormatHeader(minDuration time.Duration, startIndex int) string {
	var lines []string
	lines = append(lines, "liketrim - liked videos cleaner")
	lines = append(lines, fmt.Sprintf("Minimum video duration: %s minutes", FormatMinutes(minDuration)))
	if startIndex > 0 {
		lines = append(lines, fmt.Sprintf("Starting from index: %d", startIndex))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatCandidate formats a single removal candidate.
func (f *TerminalFormatter) FormatCandidate(c cleaner.Candidate) string {
	return fmt.Sprintf("- %s (%s minutes)", c.Title, FormatMinutes(c.Duration))
}

// FormatSample lists the first few candidates and elides the rest.
func (f *TerminalFormatter) FormatSample(candidates []cleaner.Candidate) string {
	if len(candidates) == 0 {
		return "No videos under the specified duration were found.\n"
	}

	var lines []string
	lines = append(lines, "Sample of videos to unlike:")
	for i, c := range candidates {
		if i == sampleSize {
			break
		}
		lines = append(lines, f.FormatCandidate(c))
	}
	if len(candidates) > sampleSize {
		lines = append(lines, fmt.Sprintf("... and %d more", len(candidates)-sampleSize))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatSummary formats the end-of-run summary.
func (f *TerminalFormatter) FormatSummary(report *cleaner.Report, minDuration time.Duration) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Found %d videos under %s minutes.",
		len(report.Candidates), FormatMinutes(minDuration)))

	switch {
	case report.DryRun:
		lines = append(lines, "DRY RUN: No videos were unliked.")
	case report.Removed == 0 && len(report.Pending) == 0:
		// Nothing pending, nothing to report beyond the count.
	default:
		lines = append(lines, fmt.Sprintf("Successfully unliked %d videos.", report.Removed))
	}

	if report.MissingDuration > 0 {
		lines = append(lines, fmt.Sprintf("%d videos were kept because their duration was unavailable.",
			report.MissingDuration))
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatResumeHint formats the command line that continues an unfinished run.
func (f *TerminalFormatter) FormatResumeHint(report *cleaner.Report, minDuration time.Duration) string {
	var lines []string
	if report.QuotaExhausted {
		lines = append(lines, "Quota exceeded. To continue after the daily reset, run:")
	} else {
		lines = append(lines, "Not all videos were processed. To continue, run:")
	}
	lines = append(lines, fmt.Sprintf("  liketrim --min-duration %s --start-index %d",
		FormatMinutes(minDuration), report.ResumeIndex))
	return strings.Join(lines, "\n") + "\n"
}

// FormatMinutes renders a duration as minutes with two decimals, trimming a
// trailing ".00" so whole-minute thresholds read naturally in commands.
func FormatMinutes(d time.Duration) string {
	s := fmt.Sprintf("%.2f", d.Minutes())
	return strings.TrimSuffix(s, ".00")
}
