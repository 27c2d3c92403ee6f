// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Resume is the structured resume document edited by the user and rewritten by the improvement pipeline
type Resume struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Education    []Education  `json:"education" validate:"dive"`
	Experience   []Experience `json:"experience" validate:"dive"`
	Skills       []Skill      `json:"skills" validate:"dive"`
	Languages    []Language   `json:"languages" validate:"dive"`
	Awards       []Award      `json:"awards" validate:"dive"`
	ResumeStyle  ResumeStyle  `json:"resumeStyle"`
}

// Link is a named external link (portfolio, repository, certificate URL)
type Link struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PersonalInfo holds contact details and the professional summary
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Summary  string `json:"summary"`
	Links    []Link `json:"links"`
}

// Education represents one education entry
type Education struct {
	ID           int    `json:"id" validate:"min=1"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
	Links        []Link `json:"links"`
}

// Experience represents one work experience entry
type Experience struct {
	ID          int    `json:"id" validate:"min=1"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// Skill is a single free-text skill
type Skill struct {
	ID    int    `json:"id" validate:"min=1"`
	Skill string `json:"skill"`
}

// Language is a spoken language with a proficiency level
type Language struct {
	ID          int    `json:"id" validate:"min=1"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency" validate:"omitempty,oneof=Beginner Elementary Intermediate Advanced Fluent Native"`
}

// Award represents an award or certification
type Award struct {
	ID          int    `json:"id" validate:"min=1"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// ResumeStyle is presentation-only state. Nothing server-side reads it.
type ResumeStyle struct {
	Font        string `json:"font"`
	Layout      string `json:"layout"`
	ColorScheme string `json:"colorScheme"`
}

// Clone returns a deep copy of the resume. A nil receiver yields nil.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}

	c := &Resume{
		PersonalInfo: r.PersonalInfo,
		ResumeStyle:  r.ResumeStyle,
	}
	c.PersonalInfo.Links = cloneLinks(r.PersonalInfo.Links)

	if r.Education != nil {
		c.Education = make([]Education, len(r.Education))
		for i, edu := range r.Education {
			edu.Links = cloneLinks(edu.Links)
			c.Education[i] = edu
		}
	}
	if r.Experience != nil {
		c.Experience = make([]Experience, len(r.Experience))
		for i, exp := range r.Experience {
			exp.Links = cloneLinks(exp.Links)
			c.Experience[i] = exp
		}
	}
	if r.Skills != nil {
		c.Skills = make([]Skill, len(r.Skills))
		copy(c.Skills, r.Skills)
	}
	if r.Languages != nil {
		c.Languages = make([]Language, len(r.Languages))
		copy(c.Languages, r.Languages)
	}
	if r.Awards != nil {
		c.Awards = make([]Award, len(r.Awards))
		for i, award := range r.Awards {
			award.Links = cloneLinks(award.Links)
			c.Awards[i] = award
		}
	}

	return c
}

func cloneLinks(links []Link) []Link {
	if links == nil {
		return nil
	}
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

// MaxSkillID returns the largest skill id, or 0 when there are no skills
func (r *Resume) MaxSkillID() int {
	maxID := 0
	for _, s := range r.Skills {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID
}

// FindExperience returns a pointer into the Experience slice, or nil if no entry has the id
func (r *Resume) FindExperience(id int) *Experience {
	for i := range r.Experience {
		if r.Experience[i].ID == id {
			return &r.Experience[i]
		}
	}
	return nil
}

// FindEducation returns a pointer into the Education slice, or nil if no entry has the id
func (r *Resume) FindEducation(id int) *Education {
	for i := range r.Education {
		if r.Education[i].ID == id {
			return &r.Education[i]
		}
	}
	return nil
}

// SkillNames returns the non-empty skill strings in list order
func (r *Resume) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if s.Skill != "" {
			names = append(names, s.Skill)
		}
	}
	return names
}
