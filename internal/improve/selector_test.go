package improve

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
		ok   bool
	}{
		{"plain array", `["summary", "skills"]`, []string{"summary", "skills"}, true},
		{"preamble and trailer", "Sure! Here you go:\n[\"experience-1\"]\nGood luck.", []string{"experience-1"}, true},
		{"code fence", "```json\n[\"summary\"]\n```", []string{"summary"}, true},
		{"non-string elements dropped", `["summary", 3, null, {"a": 1}, "skills"]`, []string{"summary", "skills"}, true},
		{"empty array", `[]`, []string{}, true},
		{"no brackets", `summary, skills`, nil, false},
		{"only opening bracket", `["summary"`, nil, false},
		{"invalid json", `[summary, skills]`, nil, false},
		{"two arrays", `["summary"] and ["skills"]`, nil, false},
		{"empty", ``, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSectionList(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSections(t *testing.T) {
	r := sampleResume()

	got := filterSections(r, []string{"skills", "experience-1", "experience-999", "education-1", "skills", " summary ", "awards-1", "EXPERIENCE-1"})
	assert.Equal(t, []types.SectionID{"skills", "experience-1", "education-1", "summary"}, got)
}

func TestSelectSections_ModelChoice(t *testing.T) {
	client := &fakeClient{selectResp: `["experience-1", "experience-42", "summary"]`}
	p := newTestPipeline(client)

	sel := p.selectSections(context.Background(), sampleResume(), "Go developer", "{}")

	assert.False(t, sel.Fallback)
	assert.Equal(t, []types.SectionID{"experience-1", "summary"}, sel.Sections)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "- experience-1: Backend Engineer at Acme")
	assert.Contains(t, prompt, "- experience-2: Intern at Globex")
	assert.Contains(t, prompt, "- education-1: BSc from TU Berlin")
	assert.Contains(t, prompt, "Go developer")
	assert.NotContains(t, prompt, "{{.")
}

func TestSelectSections_EmptyChoiceIsNotFallback(t *testing.T) {
	p := newTestPipeline(&fakeClient{selectResp: `[]`})

	sel := p.selectSections(context.Background(), sampleResume(), "jd", "{}")
	assert.False(t, sel.Fallback)
	assert.Empty(t, sel.Sections)
}

func TestSelectSections_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		reason string
	}{
		{"call error", &fakeClient{selectErr: errors.New("401 unauthorized")}, "model call failed"},
		{"empty response", &fakeClient{selectResp: "   "}, "empty response"},
		{"prose", &fakeClient{selectResp: "I would improve the summary."}, "unparseable response"},
		{"object not array", &fakeClient{selectResp: `{"sections": "summary"}`}, "unparseable response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(tt.client)
			sel := p.selectSections(context.Background(), sampleResume(), "jd", "{}")

			assert.True(t, sel.Fallback)
			assert.Equal(t, tt.reason, sel.Reason)
			assert.Equal(t, DefaultSections(), sel.Sections)
		})
	}
}

type failingTemplates struct{}

func (failingTemplates) Template(context.Context, string) (string, error) {
	return "", errors.New("store down")
}

func TestSelectSections_TemplateFailure(t *testing.T) {
	client := &fakeClient{selectResp: `["experience-1"]`}
	p := newTestPipeline(client, WithTemplates(failingTemplates{}))

	sel := p.selectSections(context.Background(), sampleResume(), "jd", "{}")
	assert.True(t, sel.Fallback)
	assert.Empty(t, client.prompts)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))

	cut := truncate("résumé ✓ 日本語", 8)
	assert.Equal(t, "résumé ✓...", cut)
	assert.True(t, utf8.ValidString(cut))
}
