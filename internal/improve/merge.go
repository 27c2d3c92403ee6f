package improve

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// merger applies improvements to a cloned document. Each rule touches only its own
// section, so the result does not depend on application order.
type merger struct {
	doc         *types.Resume
	nextSkillID int
	// seen holds lower-cased skill names already on the document
	seen  map[string]bool
	added []string
}

func newMerger(doc *types.Resume) *merger {
	m := &merger{
		doc:         doc,
		nextSkillID: doc.MaxSkillID() + 1,
		seen:        make(map[string]bool, len(doc.Skills)),
	}
	for _, s := range doc.Skills {
		if name := strings.TrimSpace(s.Skill); name != "" {
			m.seen[strings.ToLower(name)] = true
		}
	}
	return m
}

// apply merges one improvement. When nothing changes, reason says why.
func (m *merger) apply(imp Improvement) (applied bool, reason string) {
	if imp.Improved == "" {
		return false, "no content"
	}

	kind, id, ok := imp.Section.Parse()
	if !ok {
		return false, "unknown section"
	}

	switch kind {
	case types.SectionSummary:
		return overwrite(&m.doc.PersonalInfo.Summary, imp.Improved)

	case types.SectionSkills:
		if m.addSkills(imp.Improved) == 0 {
			return false, "no new skills"
		}
		return true, ""

	case types.SectionExperience:
		exp := m.doc.FindExperience(id)
		if exp == nil {
			return false, "stale id"
		}
		return overwrite(&exp.Description, imp.Improved)

	case types.SectionEducation:
		edu := m.doc.FindEducation(id)
		if edu == nil {
			return false, "stale id"
		}
		return overwrite(&edu.Description, imp.Improved)
	}

	return false, "unknown section"
}

// addSkills appends comma-separated skills not already present, ignoring case.
// Returns the number appended.
func (m *merger) addSkills(list string) int {
	n := 0
	for _, token := range strings.Split(list, ",") {
		name := strings.TrimSpace(token)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if m.seen[key] {
			continue
		}
		m.seen[key] = true

		m.doc.Skills = append(m.doc.Skills, types.Skill{ID: m.nextSkillID, Skill: name})
		m.nextSkillID++
		m.added = append(m.added, name)
		n++
	}
	return n
}

func overwrite(field *string, value string) (bool, string) {
	if *field == value {
		return false, "unchanged"
	}
	*field = value
	return true, ""
}
