package types

// MatchResult is the outcome of scoring a resume against a job description
type MatchResult struct {
	OverallMatch           int                `json:"overallMatch"` // 0-100
	MissingSkills          []string           `json:"missingSkills"`
	RelevantExperience     RelevantExperience `json:"relevantExperience"`
	ImprovementSuggestions []Suggestion       `json:"improvementSuggestions"`
}

// RelevantExperience splits job-relevant experience into what the candidate has and lacks
type RelevantExperience struct {
	Has     []string `json:"has"`
	Missing []string `json:"missing"`
}

// Suggestion is a proposed rewrite of one resume section
type Suggestion struct {
	Section  string `json:"section"`
	Current  string `json:"current"`
	Improved string `json:"improved"`
}
