package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintMatchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.MatchResult{
		OverallMatch:  72,
		MissingSkills: []string{"Kubernetes", "Terraform"},
		RelevantExperience: types.RelevantExperience{
			Has:     []string{"Go services"},
			Missing: []string{"Cloud infrastructure"},
		},
		ImprovementSuggestions: []types.Suggestion{
			{Section: "summary", Current: "Engineer", Improved: "Backend engineer"},
		},
	}

	p.PrintMatchResult(result)
	output := buf.String()

	assert.Contains(t, output, "MATCH ANALYSIS")
	assert.Contains(t, output, "72%")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "Go services")
	assert.Contains(t, output, "Cloud infrastructure")
	assert.Contains(t, output, "[summary] Backend engineer")
}

func TestPrintMatchResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatchResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMatchResult_TruncatesLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResult(&types.MatchResult{
		MissingSkills: []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &improve.Report{
		Selection: improve.Selection{
			Sections: []types.SectionID{"summary", "skills", "experience-2"},
			Fallback: true,
			Reason:   "model call failed",
		},
		Applied:     []types.SectionID{"summary", "skills"},
		Skipped:     []improve.SkippedSection{{Section: "experience-2", Reason: "stale id"}},
		AddedSkills: []string{"Kafka"},
		Duration:    1500 * time.Millisecond,
	}

	p.PrintReport(report)
	output := buf.String()

	assert.Contains(t, output, "IMPROVEMENT REPORT")
	assert.Contains(t, output, "summary, skills, experience-2")
	assert.Contains(t, output, "default sections: model call failed")
	assert.Contains(t, output, "✓ summary")
	assert.Contains(t, output, "✗ experience-2 (stale id)")
	assert.Contains(t, output, "Kafka")
	assert.Contains(t, output, "1.5s")
}

func TestPrintReport_Recovered(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(&improve.Report{Recovered: true, Error: errors.New("boom").Error()})

	assert.Contains(t, buf.String(), "resume returned unchanged")
	assert.Contains(t, buf.String(), "boom")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
