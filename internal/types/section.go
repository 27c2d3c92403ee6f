package types

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionID names one rewritable unit of a resume: "summary", "skills",
// "experience-<id>" or "education-<id>".
type SectionID string

// SectionKind is the type part of a SectionID
type SectionKind string

// Section kinds
const (
	SectionSummary    SectionKind = "summary"
	SectionSkills     SectionKind = "skills"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
)

// Fixed section identifiers
const (
	SummarySection SectionID = "summary"
	SkillsSection  SectionID = "skills"
)

// ExperienceSection returns the identifier of an experience entry
func ExperienceSection(id int) SectionID {
	return SectionID(fmt.Sprintf("%s-%d", SectionExperience, id))
}

// EducationSection returns the identifier of an education entry
func EducationSection(id int) SectionID {
	return SectionID(fmt.Sprintf("%s-%d", SectionEducation, id))
}

// Parse splits a section identifier into its kind and entry id.
// ok is false for anything that is not a well-formed identifier.
func (s SectionID) Parse() (kind SectionKind, id int, ok bool) {
	switch s {
	case SummarySection:
		return SectionSummary, 0, true
	case SkillsSection:
		return SectionSkills, 0, true
	}

	prefix, rest, found := strings.Cut(string(s), "-")
	if !found {
		return "", 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return "", 0, false
	}

	switch SectionKind(prefix) {
	case SectionExperience:
		return SectionExperience, n, true
	case SectionEducation:
		return SectionEducation, n, true
	default:
		return "", 0, false
	}
}

// Exists reports whether the section identifier resolves to a structural part of the resume
func (r *Resume) Exists(s SectionID) bool {
	kind, id, ok := s.Parse()
	if !ok {
		return false
	}
	switch kind {
	case SectionSummary, SectionSkills:
		return true
	case SectionExperience:
		return r.FindExperience(id) != nil
	case SectionEducation:
		return r.FindEducation(id) != nil
	}
	return false
}
