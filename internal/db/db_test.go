package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Kind: "resume", ID: "abc"}
	assert.Equal(t, "resume abc not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}

func TestMigrations(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "001_resumes", migrations[0].Name)
	assert.Equal(t, "002_prompts", migrations[1].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS resumes")
	assert.Contains(t, migrations[1].SQL, "CREATE TABLE IF NOT EXISTS prompts")

	for _, m := range migrations {
		assert.NotContains(t, strings.ToUpper(m.SQL), "DROP TABLE", "migrations must be re-runnable")
	}
}

func TestResumeName(t *testing.T) {
	assert.Equal(t, DefaultResumeName, resumeName(""))
	assert.Equal(t, DefaultResumeName, resumeName("   "))
	assert.Equal(t, "Backend CV", resumeName("Backend CV"))
}

func TestPromptRecordCustomized(t *testing.T) {
	p := PromptRecord{Content: "a", DefaultContent: "a"}
	assert.False(t, p.Customized())
	p.Content = "b"
	assert.True(t, p.Customized())
}
