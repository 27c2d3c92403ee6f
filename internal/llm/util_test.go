package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "array inside generic block",
			input:    "```\n[\"summary\", \"skills\"]\n```",
			expected: `["summary", "skills"]`,
		},
		{
			name:     "plain JSON",
			input:    `  {"key": "value"}  `,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractDelimited(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		open, close byte
		expected    string
		ok          bool
	}{
		{
			name:     "array with preamble",
			input:    "Here are the sections:\n[\"summary\", \"experience_3\"]",
			open:     '[',
			close:    ']',
			expected: `["summary", "experience_3"]`,
			ok:       true,
		},
		{
			name:     "object with trailing text",
			input:    "{\"overallMatch\": 80}\n\nLet me know!",
			open:     '{',
			close:    '}',
			expected: `{"overallMatch": 80}`,
			ok:       true,
		},
		{
			name:     "nested arrays keep outermost span",
			input:    `[[1, 2], [3]]`,
			open:     '[',
			close:    ']',
			expected: `[[1, 2], [3]]`,
			ok:       true,
		},
		{
			name:  "missing close",
			input: `["summary"`,
			open:  '[',
			close: ']',
		},
		{
			name:  "out of order",
			input: `] nothing [`,
			open:  '[',
			close: ']',
		},
		{
			name:  "empty input",
			input: "",
			open:  '{',
			close: '}',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDelimited(tt.input, tt.open, tt.close)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
