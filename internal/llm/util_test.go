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
			input:    "```json\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "code block with language tag",
			input:    "```javascript\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "plain JSON untouched",
			input:    `{"score": 80}`,
			expected: `{"score": 80}`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n{\"score\": 80}\n  ",
			expected: `{"score": 80}`,
		},
		{
			name:     "fence opens with brace on same line",
			input:    "```{\"score\": 80}```",
			expected: `{"score": 80}`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
