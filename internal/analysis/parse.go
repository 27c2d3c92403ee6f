package analysis

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// wireResult accepts a fractional score; models sometimes answer 72.5
type wireResult struct {
	OverallMatch       *float64 `json:"overallMatch"`
	MissingSkills      []string `json:"missingSkills"`
	RelevantExperience *struct {
		Has     []string `json:"has"`
		Missing []string `json:"missing"`
	} `json:"relevantExperience"`
	ImprovementSuggestions []types.Suggestion `json:"improvementSuggestions"`
}

// ParseMatchResult extracts the JSON object between the first '{' and the last '}',
// validates it against the match-result schema and clamps the score to 0-100.
func ParseMatchResult(raw string) (*types.MatchResult, error) {
	body, ok := llm.ExtractDelimited(raw, '{', '}')
	if !ok {
		return nil, &ParseError{Message: "could not find valid JSON in the response"}
	}

	if err := schemas.Validate(schemas.MatchResult, []byte(body)); err != nil {
		return nil, &ParseError{Message: "response does not match schema", Cause: err}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, &ParseError{Message: "invalid JSON", Cause: err}
	}
	if wire.OverallMatch == nil {
		return nil, &ParseError{Message: "missing or invalid overallMatch"}
	}

	result := &types.MatchResult{
		OverallMatch:           clampScore(*wire.OverallMatch),
		MissingSkills:          nonEmpty(wire.MissingSkills),
		ImprovementSuggestions: wire.ImprovementSuggestions,
	}
	if wire.RelevantExperience != nil {
		result.RelevantExperience.Has = nonEmpty(wire.RelevantExperience.Has)
		result.RelevantExperience.Missing = nonEmpty(wire.RelevantExperience.Missing)
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}
	if result.RelevantExperience.Has == nil {
		result.RelevantExperience.Has = []string{}
	}
	if result.RelevantExperience.Missing == nil {
		result.RelevantExperience.Missing = []string{}
	}
	if result.ImprovementSuggestions == nil {
		result.ImprovementSuggestions = []types.Suggestion{}
	}
	return result, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func nonEmpty(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ErrorResult is the degraded result returned when analysis fails
func ErrorResult(err error) *types.MatchResult {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &types.MatchResult{
		OverallMatch:  0,
		MissingSkills: []string{"Error analyzing resume: " + msg},
		RelevantExperience: types.RelevantExperience{
			Has:     []string{},
			Missing: []string{"Error analyzing experience"},
		},
		ImprovementSuggestions: []types.Suggestion{{
			Section:  "Error",
			Current:  "An error occurred during analysis",
			Improved: "Please try again later",
		}},
	}
}

// IsErrorResult reports whether r was produced by ErrorResult
func IsErrorResult(r *types.MatchResult) bool {
	return r != nil && r.OverallMatch == 0 && len(r.ImprovementSuggestions) == 1 &&
		r.ImprovementSuggestions[0].Section == "Error" &&
		len(r.MissingSkills) == 1 && strings.HasPrefix(r.MissingSkills[0], "Error analyzing resume: ")
}
