package improve

import (
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Report describes what an improvement run did. It is informational only;
// the returned resume is always valid whatever the report says.
type Report struct {
	Selection   Selection         `json:"selection"`
	Applied     []types.SectionID `json:"applied"`
	Skipped     []SkippedSection  `json:"skipped"`
	AddedSkills []string          `json:"added_skills"`
	// Recovered is set when an unexpected failure made the run return the input unchanged
	Recovered bool          `json:"recovered"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// SkippedSection is a selected section that did not change the document
type SkippedSection struct {
	Section types.SectionID `json:"section"`
	Reason  string          `json:"reason"`
}

// Changed reports whether any section was rewritten
func (r *Report) Changed() bool {
	return r != nil && len(r.Applied) > 0
}

func (r *Report) skip(s types.SectionID, reason string) {
	r.Skipped = append(r.Skipped, SkippedSection{Section: s, Reason: reason})
}
