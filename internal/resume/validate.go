package resume

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-matcher/internal/types"
)

var validate = validator.New()

// ValidationError reports a resume that violates a structural rule
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid resume: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid resume: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks struct tags (ids >= 1, email format, proficiency vocabulary)
// and that ids are unique within each list.
func Validate(r *types.Resume) error {
	if r == nil {
		return &ValidationError{Message: "resume is required"}
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			// report the first failure only
			ve := verrs[0]
			return &ValidationError{Field: ve.Namespace(), Message: "failed " + ve.Tag(), Cause: err}
		}
		return &ValidationError{Message: "validation failed", Cause: err}
	}

	checks := []struct {
		field string
		ids   []int
	}{
		{"education", educationIDs(r)},
		{"experience", experienceIDs(r)},
		{"skills", skillIDs(r)},
		{"languages", languageIDs(r)},
		{"awards", awardIDs(r)},
	}
	for _, c := range checks {
		if dup, ok := firstDuplicate(c.ids); ok {
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("duplicate id %d", dup)}
		}
	}
	return nil
}

func firstDuplicate(ids []int) (int, bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

func educationIDs(r *types.Resume) []int {
	ids := make([]int, len(r.Education))
	for i, e := range r.Education {
		ids[i] = e.ID
	}
	return ids
}

func experienceIDs(r *types.Resume) []int {
	ids := make([]int, len(r.Experience))
	for i, e := range r.Experience {
		ids[i] = e.ID
	}
	return ids
}

func skillIDs(r *types.Resume) []int {
	ids := make([]int, len(r.Skills))
	for i, s := range r.Skills {
		ids[i] = s.ID
	}
	return ids
}

func languageIDs(r *types.Resume) []int {
	ids := make([]int, len(r.Languages))
	for i, l := range r.Languages {
		ids[i] = l.ID
	}
	return ids
}

func awardIDs(r *types.Resume) []int {
	ids := make([]int, len(r.Awards))
	for i, a := range r.Awards {
		ids[i] = a.ID
	}
	return ids
}
