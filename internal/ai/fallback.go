package ai

import (
	"fmt"
	"strings"

	"github.com/jonathan/mock-interview/internal/types"
)

// Deterministic stand-ins served when no API credential is configured. The
// content is fixed so two calls with the same input return identical results.

func fallbackAnalysis(text string) *types.Analysis {
	excerpt := strings.Join(strings.Fields(text), " ")
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}

	summary := "Professional profile from uploaded resume."
	if excerpt != "" {
		summary = fmt.Sprintf("Professional with experience. Resume excerpt: %s...", excerpt)
	}

	return &types.Analysis{
		Skills:          []string{"Communication", "Problem solving", "Teamwork", "Resume-based skills"},
		Strengths:       []string{"Strong background from resume", "Relevant experience"},
		Weaknesses:      []string{"Consider adding more quantifiable achievements"},
		RoleSuitability: "Suitable for roles matching experience and skills listed in the resume.",
		Summary:         summary,
		RawResponse:     "Mock analysis (set GEMINI_API_KEY for real AI).",
	}
}

var fallbackQuestions = map[types.Mode][]string{
	types.ModeHR: {
		"Tell me about yourself.",
		"Why do you want to work here?",
		"What are your strengths and weaknesses?",
		"Where do you see yourself in 5 years?",
		"Why should we hire you?",
	},
	types.ModeTechnical: {
		"Describe a technical challenge you solved.",
		"How do you stay updated with new technologies?",
		"Explain a project you are proud of.",
		"How do you approach debugging?",
		"What tools do you use for development?",
	},
	types.ModeBehavioral: {
		"Describe a time you worked under pressure.",
		"Tell me about a conflict with a teammate and how you resolved it.",
		"Give an example of when you showed leadership.",
		"Describe a time you failed and what you learned.",
		"Tell me about a goal you achieved.",
	},
}

func fallbackQuestionSet(mode types.Mode) []string {
	questions, ok := fallbackQuestions[mode]
	if !ok {
		questions = fallbackQuestions[types.ModeHR]
	}
	return append([]string(nil), questions...)
}

func fallbackEvaluation(answer string) *types.AnswerEvaluation {
	if len(strings.TrimSpace(answer)) > 10 {
		return &types.AnswerEvaluation{
			Feedback: "Good effort. Try to add more specific examples and structure your answer using the STAR format (Situation, Task, Action, Result) for stronger responses.",
			Score:    70,
		}
	}
	return &types.AnswerEvaluation{
		Feedback: "Consider giving a longer, more detailed answer with concrete examples from your experience.",
		Score:    50,
	}
}

func fallbackFinalReport(qa []types.QAEntry, mode types.Mode) *types.FinalReport {
	answered := 0
	total := 0
	for _, entry := range qa {
		if strings.TrimSpace(entry.UserAnswer) != "" {
			answered++
		}
		total += entry.Score
	}

	avg := 70
	if len(qa) > 0 {
		avg = total / len(qa)
	}

	technicalDepth := avg
	if mode == types.ModeTechnical {
		technicalDepth = clampScore(avg + 10)
	}

	return &types.FinalReport{
		Communication:  clampScore(avg + 5),
		Confidence:     clampScore(avg),
		TechnicalDepth: technicalDepth,
		OverallFeedback: fmt.Sprintf(
			"You answered %d of %d questions. Overall, your responses showed a basic understanding of the topics. Focus on providing more detailed answers with specific examples from your experience to demonstrate your skills more effectively.",
			answered, len(qa)),
		ImprovementSuggestions: []string{
			"Prepare specific examples using the STAR format (Situation, Task, Action, Result) for behavioral questions.",
			"Practice speaking clearly and at a steady pace to improve communication.",
			"Research the company and role beforehand to give more tailored responses.",
			"Quantify your achievements where possible (e.g., \"increased efficiency by 20%\").",
			"Ask clarifying questions if needed to ensure you understand what is being asked.",
		},
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
