// Package resume holds document-level operations on types.Resume that are shared by
// the HTTP API, the CLI and the analysis prompt: normalisation, validation and plain-text rendering.
package resume

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// ProficiencyLevels is the language proficiency vocabulary, lowest first
var ProficiencyLevels = []string{"Beginner", "Elementary", "Intermediate", "Advanced", "Fluent", "Native"}

// DefaultStyle is applied to documents saved without a style
var DefaultStyle = types.ResumeStyle{
	Font:        "font-sans",
	Layout:      "classic",
	ColorScheme: "default",
}

// Normalize returns a deep copy of r with every list present (empty rather than nil),
// missing style fields defaulted and proficiencies mapped onto ProficiencyLevels.
// A nil input yields an empty document.
func Normalize(r *types.Resume) *types.Resume {
	out := r.Clone()
	if out == nil {
		out = &types.Resume{}
	}

	if out.PersonalInfo.Links == nil {
		out.PersonalInfo.Links = []types.Link{}
	}
	if out.Education == nil {
		out.Education = []types.Education{}
	}
	if out.Experience == nil {
		out.Experience = []types.Experience{}
	}
	if out.Skills == nil {
		out.Skills = []types.Skill{}
	}
	if out.Languages == nil {
		out.Languages = []types.Language{}
	}
	if out.Awards == nil {
		out.Awards = []types.Award{}
	}

	for i := range out.Education {
		if out.Education[i].Links == nil {
			out.Education[i].Links = []types.Link{}
		}
	}
	for i := range out.Experience {
		if out.Experience[i].Links == nil {
			out.Experience[i].Links = []types.Link{}
		}
	}
	for i := range out.Awards {
		if out.Awards[i].Links == nil {
			out.Awards[i].Links = []types.Link{}
		}
	}
	for i := range out.Languages {
		out.Languages[i].Proficiency = normalizeProficiency(out.Languages[i].Proficiency)
	}

	if out.ResumeStyle.Font == "" {
		out.ResumeStyle.Font = DefaultStyle.Font
	}
	if out.ResumeStyle.Layout == "" {
		out.ResumeStyle.Layout = DefaultStyle.Layout
	}
	if out.ResumeStyle.ColorScheme == "" {
		out.ResumeStyle.ColorScheme = DefaultStyle.ColorScheme
	}

	return out
}

func normalizeProficiency(p string) string {
	p = strings.TrimSpace(p)
	for _, level := range ProficiencyLevels {
		if strings.EqualFold(p, level) {
			return level
		}
	}
	return ProficiencyLevels[0]
}
