package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("improvement.json", "identify-sections-to-improve")
	require.NoError(t, err)
	assert.Contains(t, prompt, "identify which sections of the resume need improvement")
	assert.Contains(t, prompt, "{{.ExperienceSections}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("analysis.json", "analyze-job-match")
		assert.Contains(t, prompt, `"overallMatch": number`)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	assert.Equal(t, template, Format(template, map[string]string{"Key": "Value"}))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "JD: {{.JobDescription}} / {{.CurrentContent}}"
	data := map[string]string{
		"JobDescription": "mentions {{.CurrentContent}} literally",
		"CurrentContent": "Developer.",
	}

	assert.Equal(t, "JD: mentions {{.CurrentContent}} literally / Developer.", Format(template, data))
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("improvement.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"identify-sections-to-improve", "improve-section", "skills-instruction"}, keys)
}

func TestEmbeddedTemplatesHavePlaceholders(t *testing.T) {
	ClearCache()

	cases := map[string][]string{
		AnalyzeJobMatch:           {"{{.ResumeText}}", "{{.JobDescription}}"},
		IdentifySectionsToImprove: {"{{.JobDescription}}", "{{.MatchAnalysis}}", "{{.ExperienceSections}}", "{{.EducationSections}}"},
		ImproveSection:            {"{{.JobDescription}}", "{{.SectionType}}", "{{.CurrentContent}}", "{{.MatchAnalysis}}", "{{.SkillsInstruction}}"},
	}
	for id, placeholders := range cases {
		def, ok := Lookup(id)
		require.True(t, ok, id)
		content, err := def.Content()
		require.NoError(t, err)
		for _, p := range placeholders {
			assert.Contains(t, content, p, "%s missing %s", id, p)
		}
	}
}
