package resume

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// PlainText renders the resume as markdown-flavoured text for LLM prompts.
// Empty end dates render as "Present".
func PlainText(r *types.Resume) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	p := r.PersonalInfo

	fmt.Fprintf(&sb, "# %s\n", p.FullName)
	fmt.Fprintf(&sb, "%s | %s | %s\n\n", p.Email, p.Phone, p.Address)

	sb.WriteString("## Summary\n")
	sb.WriteString(p.Summary)
	sb.WriteString("\n\n")

	sb.WriteString("## Skills\n")
	sb.WriteString(strings.Join(r.SkillNames(), ", "))
	sb.WriteString("\n\n")

	sb.WriteString("## Experience\n")
	for _, exp := range r.Experience {
		fmt.Fprintf(&sb, "%s at %s (%s - %s)\n", exp.Position, exp.Company, exp.StartDate, orPresent(exp.EndDate))
		if exp.Description != "" {
			sb.WriteString(exp.Description)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Education\n")
	for _, edu := range r.Education {
		fmt.Fprintf(&sb, "%s in %s from %s (%s - %s)\n", edu.Degree, edu.FieldOfStudy, edu.Institution, edu.StartDate, orPresent(edu.EndDate))
		if edu.Description != "" {
			sb.WriteString(edu.Description)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Languages\n")
	langs := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		if l.Name == "" {
			continue
		}
		langs = append(langs, fmt.Sprintf("%s: %s", l.Name, l.Proficiency))
	}
	sb.WriteString(strings.Join(langs, ", "))
	sb.WriteString("\n\n")

	sb.WriteString("## Awards & Certifications\n")
	for _, a := range r.Awards {
		fmt.Fprintf(&sb, "%s from %s (%s)\n", a.Title, a.Issuer, a.Date)
		if a.Description != "" {
			sb.WriteString(a.Description)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func orPresent(date string) string {
	if strings.TrimSpace(date) == "" {
		return "Present"
	}
	return date
}
