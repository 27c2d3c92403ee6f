package prompts

// Editable prompt ids. Each is also the key of its default in the embedded files.
const (
	AnalyzeJobMatch           = "analyze-job-match"
	IdentifySectionsToImprove = "identify-sections-to-improve"
	ImproveSection            = "improve-section"
	skillsInstructionKey      = "skills-instruction"
	analysisFile              = "analysis.json"
	improvementFile           = "improvement.json"
)

// Definition describes one prompt an admin can edit
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	file        string
}

// Content returns the embedded default template
func (d Definition) Content() (string, error) {
	return Get(d.file, d.ID)
}

var definitions = []Definition{
	{
		ID:          AnalyzeJobMatch,
		Name:        "Analyze Job Match",
		Description: "Prompt used to analyze how well a resume matches a job description",
		file:        analysisFile,
	},
	{
		ID:          IdentifySectionsToImprove,
		Name:        "Identify Sections to Improve",
		Description: "Prompt used to identify which sections of the resume need improvement",
		file:        improvementFile,
	},
	{
		ID:          ImproveSection,
		Name:        "Improve Section",
		Description: "Prompt used to improve a specific section of the resume",
		file:        improvementFile,
	},
}

// Defaults returns the editable prompts in display order
func Defaults() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds an editable prompt by id
func Lookup(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// SkillsInstruction is the extra rewrite instruction appended for the skills section
func SkillsInstruction() string {
	return MustGet(improvementFile, skillsInstructionKey)
}
