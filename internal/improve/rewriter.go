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

// Improvement is the rewrite of one section. Improved == "" means nothing to merge.
type Improvement struct {
	Section  types.SectionID `json:"section"`
	Current  string          `json:"current"`
	Improved string          `json:"improved"`
}

type rewriteResult struct {
	Improvement
	// degraded is set when the model call failed and Improved was copied from Current
	degraded string
}

// resolveSection returns the prompt label and current text of s. ok is false when s
// does not resolve to an existing section.
func resolveSection(r *types.Resume, s types.SectionID) (label, current string, ok bool) {
	kind, id, valid := s.Parse()
	if !valid {
		return "", "", false
	}

	switch kind {
	case types.SectionSummary:
		return "Professional Summary", r.PersonalInfo.Summary, true
	case types.SectionSkills:
		return "Skills List", strings.Join(r.SkillNames(), ", "), true
	case types.SectionExperience:
		if exp := r.FindExperience(id); exp != nil {
			return fmt.Sprintf("Experience Description for %s at %s", exp.Position, exp.Company), exp.Description, true
		}
	case types.SectionEducation:
		if edu := r.FindEducation(id); edu != nil {
			return fmt.Sprintf("Education Description for %s from %s", edu.Degree, edu.Institution), edu.Description, true
		}
	}
	return "", "", false
}

// rewriteSection produces improved text for one section. Failures are isolated:
// a failed call yields Improved == Current, an unresolvable section yields the empty sentinel.
func (p *Pipeline) rewriteSection(ctx context.Context, s types.SectionID, r *types.Resume, jobDescription, matchJSON string) rewriteResult {
	label, current, ok := resolveSection(r, s)
	if !ok || strings.TrimSpace(current) == "" {
		return rewriteResult{Improvement: Improvement{Section: s}}
	}

	noChange := func(reason string) rewriteResult {
		return rewriteResult{
			Improvement: Improvement{Section: s, Current: current, Improved: current},
			degraded:    reason,
		}
	}

	tmpl, err := p.templates.Template(ctx, prompts.ImproveSection)
	if err != nil {
		p.log.Warn().Err(err).Str("section", string(s)).Msg("rewrite prompt unavailable")
		return noChange("prompt unavailable")
	}

	skillsInstruction := ""
	if s == types.SkillsSection {
		skillsInstruction = prompts.SkillsInstruction()
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"JobDescription":    jobDescription,
		"SectionType":       label,
		"CurrentContent":    current,
		"MatchAnalysis":     matchJSON,
		"SkillsInstruction": skillsInstruction,
	})

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	raw, err := p.client.GenerateContent(callCtx, prompt, p.tier)
	if err != nil {
		p.log.Warn().Err(err).Str("section", string(s)).Msg("section rewrite failed, keeping current content")
		return noChange("model call failed")
	}

	improved := cleanRewrite(raw)
	if improved == "" {
		p.log.Warn().Str("section", string(s)).Msg("empty rewrite response, keeping current content")
		return noChange("empty response")
	}

	return rewriteResult{Improvement: Improvement{Section: s, Current: current, Improved: improved}}
}

// cleanRewrite strips code fences and a {"text": ...} wrapper some models add
func cleanRewrite(raw string) string {
	text := llm.CleanJSONBlock(raw)

	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.Text != "" {
			text = wrapped.Text
		}
	}
	return strings.TrimSpace(text)
}
