package improve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Selection is the outcome of the section-selection step
type Selection struct {
	Sections []types.SectionID `json:"sections"`
	// Fallback is set when the default set was used because the model call or its parsing failed
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// DefaultSections is used whenever the model's choice cannot be obtained
func DefaultSections() []types.SectionID {
	return []types.SectionID{types.SummarySection, types.SkillsSection}
}

func fallbackSelection(reason string) Selection {
	return Selection{Sections: DefaultSections(), Fallback: true, Reason: reason}
}

// selectSections asks the model which sections to rewrite. It never fails:
// any error degrades to DefaultSections.
func (p *Pipeline) selectSections(ctx context.Context, r *types.Resume, jobDescription, matchJSON string) Selection {
	tmpl, err := p.templates.Template(ctx, prompts.IdentifySectionsToImprove)
	if err != nil {
		p.log.Warn().Err(err).Msg("section selection prompt unavailable, using default sections")
		return fallbackSelection("prompt unavailable")
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"JobDescription":     jobDescription,
		"MatchAnalysis":      matchJSON,
		"ExperienceSections": experienceLines(r),
		"EducationSections":  educationLines(r),
	})

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	raw, err := p.client.GenerateContent(callCtx, prompt, llm.TierLite)
	if err != nil {
		p.log.Warn().Err(err).Msg("section selection failed, using default sections")
		return fallbackSelection("model call failed")
	}
	if strings.TrimSpace(raw) == "" {
		p.log.Warn().Msg("empty section selection response, using default sections")
		return fallbackSelection("empty response")
	}

	ids, ok := parseSectionList(raw)
	if !ok {
		p.log.Warn().Str("response", truncate(raw, 200)).Msg("could not parse section list, using default sections")
		return fallbackSelection("unparseable response")
	}

	sel := Selection{Sections: filterSections(r, ids)}
	p.log.Debug().Strs("requested", ids).Int("selected", len(sel.Sections)).Msg("sections selected")
	return sel
}

// parseSectionList extracts the JSON array between the first '[' and the last ']'.
// Non-string elements are dropped. ok is false when no array can be parsed.
func parseSectionList(raw string) (ids []string, ok bool) {
	body, found := llm.ExtractDelimited(raw, '[', ']')
	if !found {
		return nil, false
	}

	var items []any
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, false
	}

	ids = make([]string, 0, len(items))
	for _, item := range items {
		if s, isString := item.(string); isString {
			ids = append(ids, s)
		}
	}
	return ids, true
}

// filterSections keeps identifiers that resolve to a part of r, first occurrence only
func filterSections(r *types.Resume, ids []string) []types.SectionID {
	out := make([]types.SectionID, 0, len(ids))
	seen := make(map[types.SectionID]bool, len(ids))
	for _, id := range ids {
		s := types.SectionID(strings.TrimSpace(id))
		if seen[s] || !r.Exists(s) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func experienceLines(r *types.Resume) string {
	lines := make([]string, 0, len(r.Experience))
	for _, exp := range r.Experience {
		lines = append(lines, fmt.Sprintf("- %s: %s at %s", types.ExperienceSection(exp.ID), exp.Position, exp.Company))
	}
	return strings.Join(lines, "\n")
}

func educationLines(r *types.Resume) string {
	lines := make([]string, 0, len(r.Education))
	for _, edu := range r.Education {
		lines = append(lines, fmt.Sprintf("- %s: %s from %s", types.EducationSection(edu.ID), edu.Degree, edu.Institution))
	}
	return strings.Join(lines, "\n")
}

// truncate keeps at most n runes of s
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
