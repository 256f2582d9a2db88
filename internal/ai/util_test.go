package ai

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
			name:     "plain JSON untouched",
			input:    `{"score": 70}`,
			expected: `{"score": 70}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"score\": 70}\n```",
			expected: `{"score": 70}`,
		},
		{
			name:     "bare fence",
			input:    "```\n[\"a\", \"b\"]\n```",
			expected: `["a", "b"]`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{}\n```  \n",
			expected: `{}`,
		},
		{
			name:     "unterminated fence",
			input:    "```json\n{\"score\": 70}",
			expected: `{"score": 70}`,
		},
		{
			name:     "empty input",
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
