package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/types"
)

func TestFallbackQuestionSet_Deterministic(t *testing.T) {
	for _, mode := range []types.Mode{types.ModeHR, types.ModeTechnical, types.ModeBehavioral} {
		t.Run(string(mode), func(t *testing.T) {
			first := fallbackQuestionSet(mode)
			second := fallbackQuestionSet(mode)
			require.Len(t, first, 5)
			assert.Equal(t, first, second, "same mode must yield identical questions")
		})
	}
}

func TestFallbackQuestionSet_UnknownModeFallsBackToHR(t *testing.T) {
	assert.Equal(t, fallbackQuestionSet(types.ModeHR), fallbackQuestionSet(types.Mode("nonsense")))
}

func TestFallbackQuestionSet_ReturnsCopy(t *testing.T) {
	first := fallbackQuestionSet(types.ModeHR)
	first[0] = "tampered"
	assert.NotEqual(t, "tampered", fallbackQuestionSet(types.ModeHR)[0])
}

func TestFallbackEvaluation_ScoreThreshold(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected int
	}{
		{name: "substantive answer", answer: "I led the migration of our main service.", expected: 70},
		{name: "short answer", answer: "Yes.", expected: 50},
		{name: "empty answer", answer: "", expected: 50},
		{name: "whitespace only", answer: "    \n\t  ", expected: 50},
		{name: "exactly ten characters", answer: "1234567890", expected: 50},
		{name: "eleven characters", answer: "12345678901", expected: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := fallbackEvaluation(tt.answer)
			assert.Equal(t, tt.expected, eval.Score)
			assert.NotEmpty(t, eval.Feedback)
		})
	}
}

func TestFallbackFinalReport_Averages(t *testing.T) {
	qa := []types.QAEntry{
		{Question: "Q1", UserAnswer: "answer one", Score: 70},
		{Question: "Q2", UserAnswer: "answer two", Score: 50},
	}

	report := fallbackFinalReport(qa, types.ModeHR)
	// avg = (70+50)/2 = 60
	assert.Equal(t, 65, report.Communication)
	assert.Equal(t, 60, report.Confidence)
	assert.Equal(t, 60, report.TechnicalDepth, "no technical bump outside technical mode")
	assert.Contains(t, report.OverallFeedback, "2 of 2 questions")
	assert.NotEmpty(t, report.ImprovementSuggestions)
}

func TestFallbackFinalReport_TechnicalBump(t *testing.T) {
	qa := []types.QAEntry{{Question: "Q1", UserAnswer: "answer", Score: 60}}

	report := fallbackFinalReport(qa, types.ModeTechnical)
	assert.Equal(t, 70, report.TechnicalDepth)
}

func TestFallbackFinalReport_CountsOnlyAnsweredQuestions(t *testing.T) {
	qa := []types.QAEntry{
		{Question: "Q1", UserAnswer: "something", Score: 70},
		{Question: "Q2", UserAnswer: "", Score: 0},
		{Question: "Q3", UserAnswer: "   ", Score: 0},
	}

	report := fallbackFinalReport(qa, types.ModeHR)
	assert.True(t, strings.HasPrefix(report.OverallFeedback, "You answered 1 of 3 questions."))
}

func TestFallbackFinalReport_EmptySession(t *testing.T) {
	report := fallbackFinalReport(nil, types.ModeHR)
	assert.Equal(t, 75, report.Communication, "empty session defaults to a 70 average")
	assert.Equal(t, 70, report.Confidence)
}

func TestFallbackFinalReport_ScoresClamped(t *testing.T) {
	qa := []types.QAEntry{{Question: "Q1", UserAnswer: "answer", Score: 100}}

	report := fallbackFinalReport(qa, types.ModeTechnical)
	assert.Equal(t, 100, report.TechnicalDepth, "scores never exceed 100")
	assert.Equal(t, 100, report.Communication)
}

func TestFallbackAnalysis(t *testing.T) {
	analysis := fallbackAnalysis("Senior engineer\nwith   ten years of experience.")
	assert.NotEmpty(t, analysis.Skills)
	assert.Contains(t, analysis.Summary, "Senior engineer with ten years of experience.",
		"excerpt should collapse whitespace")
	assert.NotEmpty(t, analysis.RawResponse)
}

func TestFallbackAnalysis_TruncatesLongText(t *testing.T) {
	analysis := fallbackAnalysis(strings.Repeat("resume text ", 200))
	assert.Less(t, len(analysis.Summary), 600)
}
