package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedMime(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		expected bool
	}{
		{name: "pdf", mime: MimePDF, expected: true},
		{name: "docx", mime: MimeDOCX, expected: true},
		{name: "plain text", mime: "text/plain", expected: false},
		{name: "legacy doc", mime: "application/msword", expected: false},
		{name: "empty", mime: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SupportedMime(tt.mime))
		})
	}
}

func TestResume_UnsupportedType(t *testing.T) {
	text, err := Resume([]byte("hello"), "text/plain")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Empty(t, text)
}

func TestResume_CorruptPDF(t *testing.T) {
	_, err := Resume([]byte("definitely not a pdf"), MimePDF)
	assert.Error(t, err)
}

func TestResume_CorruptDOCX(t *testing.T) {
	_, err := Resume([]byte("definitely not a zip archive"), MimeDOCX)
	assert.Error(t, err)
}
