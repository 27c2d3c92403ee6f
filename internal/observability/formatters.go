// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to at most n runes, marking the cut with "..."
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintMatchResult outputs a human-readable summary of a match analysis.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall match: %d%%\n\n", result.OverallMatch))

	writeList(&sb, "Missing Skills", result.MissingSkills)
	writeList(&sb, "Relevant Experience", result.RelevantExperience.Has)
	writeList(&sb, "Experience Gaps", result.RelevantExperience.Missing)

	if len(result.ImprovementSuggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		count := min(len(result.ImprovementSuggestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := result.ImprovementSuggestions[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", s.Section, s.Improved))
		}
		if len(result.ImprovementSuggestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.ImprovementSuggestions)-maxItemsToShow))
		}
	}

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs what an improvement run selected, applied and skipped.
func (p *Printer) PrintReport(report *improve.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.Recovered {
		sb.WriteString("⚠ Run failed; resume returned unchanged\n")
		if report.Error != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", report.Error))
		}
		sb.WriteString("\n")
	}

	selected := make([]string, len(report.Selection.Sections))
	for i, s := range report.Selection.Sections {
		selected[i] = string(s)
	}
	sb.WriteString(fmt.Sprintf("Selected: %s\n", strings.Join(selected, ", ")))
	if report.Selection.Fallback {
		sb.WriteString(fmt.Sprintf("  (default sections: %s)\n", report.Selection.Reason))
	}
	sb.WriteString("\n")

	for _, s := range report.Applied {
		sb.WriteString(fmt.Sprintf("✓ %s\n", s))
	}
	for _, s := range report.Skipped {
		sb.WriteString(fmt.Sprintf("✗ %s (%s)\n", s.Section, s.Reason))
	}
	if len(report.AddedSkills) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Added Skills", report.AddedSkills)
	}

	sb.WriteString(fmt.Sprintf("Took %s", report.Duration.Round(time.Millisecond)))

	p.printBox("IMPROVEMENT REPORT", sb.String())
}
