package prompts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	overrides map[string]string
	err       error
}

func (f *fakeStore) GetPromptOverride(_ context.Context, id string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	content, ok := f.overrides[id]
	return content, ok, nil
}

func TestDefaults(t *testing.T) {
	defs := Defaults()
	require.Len(t, defs, 3)
	assert.Equal(t, AnalyzeJobMatch, defs[0].ID)
	assert.Equal(t, "Identify Sections to Improve", defs[1].Name)

	// callers get a copy
	defs[0].Name = "changed"
	assert.Equal(t, "Analyze Job Match", Defaults()[0].Name)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("skills-instruction")
	assert.False(t, ok)
}

func TestSkillsInstruction(t *testing.T) {
	assert.Contains(t, SkillsInstruction(), "comma-separated list of skills")
}

func TestResolver_NilStoreUsesDefault(t *testing.T) {
	r := NewResolver(nil)

	got, err := r.Template(context.Background(), ImproveSection)
	require.NoError(t, err)
	want, _ := Get("improvement.json", ImproveSection)
	assert.Equal(t, want, got)
}

func TestResolver_OverrideWins(t *testing.T) {
	r := NewResolver(&fakeStore{overrides: map[string]string{ImproveSection: "custom {{.CurrentContent}}"}})

	got, err := r.Template(context.Background(), ImproveSection)
	require.NoError(t, err)
	assert.Equal(t, "custom {{.CurrentContent}}", got)
}

func TestResolver_BlankOverrideIgnored(t *testing.T) {
	r := NewResolver(&fakeStore{overrides: map[string]string{AnalyzeJobMatch: "   "}})

	got, err := r.Template(context.Background(), AnalyzeJobMatch)
	require.NoError(t, err)
	assert.Contains(t, got, "expert resume analyst")
}

func TestResolver_StoreErrorFallsBack(t *testing.T) {
	r := NewResolver(&fakeStore{err: errors.New("connection refused")})

	got, err := r.Template(context.Background(), IdentifySectionsToImprove)
	require.NoError(t, err)
	assert.Contains(t, got, "RESUME SECTIONS")
}

func TestResolver_UnknownID(t *testing.T) {
	_, err := NewResolver(nil).Template(context.Background(), "nope")
	assert.Error(t, err)
}
