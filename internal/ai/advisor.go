package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/mock-interview/internal/types"
)

// Prompt truncation limits keep request sizes bounded.
const (
	maxAnalysisChars = 12000
	maxExcerptChars  = 3000
)

// blankAnswerPlaceholder is substituted when a candidate submits no answer.
const blankAnswerPlaceholder = "(No answer or inaudible)"

// Advisor produces structured interview content. With a nil client (no API
// credential configured) every operation serves a deterministic local
// stand-in; with a live client, provider failures are returned to the caller
// so the HTTP layer can surface a retryable condition instead of silently
// serving mock content.
type Advisor struct {
	client Client
}

// NewAdvisor creates an advisor. An empty apiKey selects fallback-only mode.
func NewAdvisor(ctx context.Context, apiKey string) (*Advisor, error) {
	if apiKey == "" {
		log.Println("[ai] Gemini API key: NOT set (using deterministic fallback content)")
		return &Advisor{}, nil
	}

	client, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	log.Println("[ai] Gemini API key: configured")
	return &Advisor{client: client}, nil
}

// NewAdvisorWithClient creates an advisor over an existing client.
func NewAdvisorWithClient(client Client) *Advisor {
	return &Advisor{client: client}
}

// Close releases the underlying client, if any.
func (a *Advisor) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// AnalyzeResume produces a structured analysis of the resume text.
func (a *Advisor) AnalyzeResume(ctx context.Context, text string) (*types.Analysis, error) {
	if a.client == nil {
		return fallbackAnalysis(text), nil
	}

	prompt := fmt.Sprintf(`You are an expert career coach. Analyze this resume and respond with a valid JSON object (no markdown, no code block) with exactly these keys:
- skills: array of strings (technical and soft skills mentioned)
- strengths: array of strings (key strengths)
- weaknesses: array of strings (gaps or areas to improve)
- roleSuitability: string (1-2 sentences on suitable roles)
- summary: string (2-4 sentence executive summary: candidate's background, key experience, main skills, and career focus. Write in third person. Do NOT copy raw text, contact details (email, phone, LinkedIn), or verbatim excerpts. Be concise and professional.)

Resume text:
---
%s
---

Return only the JSON object.`, truncate(text, maxAnalysisChars))

	raw, err := a.client.GenerateJSON(ctx, prompt, 0.3)
	if err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}

	doc := CleanJSONBlock(raw)
	if err := validateResponse(analysisSchema, doc); err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}

	var analysis types.Analysis
	if err := json.Unmarshal([]byte(doc), &analysis); err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}
	analysis.RawResponse = raw
	return &analysis, nil
}

// GenerateQuestions produces interview questions framed for the mode,
// personalized with the resume context when available.
func (a *Advisor) GenerateQuestions(ctx context.Context, resumeText string, analysis *types.Analysis, mode types.Mode) ([]string, error) {
	if a.client == nil {
		return fallbackQuestionSet(mode), nil
	}

	summary := "Not provided"
	skills := "Not provided"
	if analysis != nil {
		if analysis.Summary != "" {
			summary = analysis.Summary
		}
		if len(analysis.Skills) > 0 {
			skills = strings.Join(analysis.Skills, ", ")
		}
	}

	prompt := fmt.Sprintf(`You are an expert interviewer. Generate exactly 5 UNIQUE, PERSONALIZED interview questions for a %s interview.

CRITICAL: Base questions STRICTLY on this specific candidate's resume. Reference their actual experience, projects, skills, and background. Each user must get DIFFERENT questions - never use the same generic set. Vary question types and make them specific to this candidate.

Resume summary: %s
Skills: %s

Resume excerpt (first %d chars):
%s

Return a valid JSON array of exactly 5 strings, each being one question. Example: ["Question 1?", "Question 2?", ...]
No other text, only the JSON array.`,
		modeDescription(mode), summary, skills, maxExcerptChars, truncate(resumeText, maxExcerptChars))

	raw, err := a.client.GenerateJSON(ctx, prompt, 0.8)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	doc := CleanJSONBlock(raw)
	if err := validateResponse(questionsSchema, doc); err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(doc), &questions); err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	return questions, nil
}

// EvaluateAnswer scores one answer and returns constructive feedback.
func (a *Advisor) EvaluateAnswer(ctx context.Context, question, answer string, mode types.Mode) (*types.AnswerEvaluation, error) {
	if a.client == nil {
		return fallbackEvaluation(answer), nil
	}

	if strings.TrimSpace(answer) == "" {
		answer = blankAnswerPlaceholder
	}

	prompt := fmt.Sprintf(`You are an expert interviewer giving real-time feedback.
Question: %s
Candidate answer (transcribed): %s
Interview mode: %s

Respond with a valid JSON object (no markdown) with:
- feedback: string (2-4 sentences, constructive)
- score: number 0-100 (how good the answer was)

Return only the JSON object.`, question, answer, mode)

	raw, err := a.client.GenerateJSON(ctx, prompt, 0.4)
	if err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}

	doc := CleanJSONBlock(raw)
	if err := validateResponse(evaluationSchema, doc); err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}

	var eval types.AnswerEvaluation
	if err := json.Unmarshal([]byte(doc), &eval); err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}
	return &eval, nil
}

// FinalFeedback aggregates the full Q&A transcript into final scores,
// overall feedback and improvement suggestions.
func (a *Advisor) FinalFeedback(ctx context.Context, qa []types.QAEntry, mode types.Mode) (*types.FinalReport, error) {
	if a.client == nil {
		return fallbackFinalReport(qa, mode), nil
	}

	var transcript strings.Builder
	for i, entry := range qa {
		answer := entry.UserAnswer
		if answer == "" {
			answer = "N/A"
		}
		feedback := entry.AIFeedback
		if feedback == "" {
			feedback = "N/A"
		}
		fmt.Fprintf(&transcript, "Q%d: %s\nA: %s\nFeedback: %s\nScore: %d\n\n",
			i+1, entry.Question, answer, feedback, entry.Score)
	}

	prompt := fmt.Sprintf(`You are an expert career coach. Based on this interview Q&A and per-answer feedback, provide final evaluation.

Interview mode: %s

%s
Respond with a valid JSON object (no markdown) with:
- communication: number 0-100
- confidence: number 0-100
- technicalDepth: number 0-100
- overallFeedback: string (paragraph)
- improvementSuggestions: array of 3-5 strings

Return only the JSON object.`, mode, transcript.String())

	raw, err := a.client.GenerateJSON(ctx, prompt, 0.4)
	if err != nil {
		return nil, fmt.Errorf("final feedback failed: %w", err)
	}

	doc := CleanJSONBlock(raw)
	if err := validateResponse(finalReportSchema, doc); err != nil {
		return nil, fmt.Errorf("final feedback failed: %w", err)
	}

	var report types.FinalReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil {
		return nil, fmt.Errorf("final feedback failed: %w", err)
	}
	return &report, nil
}

func modeDescription(mode types.Mode) string {
	switch mode {
	case types.ModeTechnical:
		return "Technical skills and problem-solving"
	case types.ModeBehavioral:
		return "Behavioral / STAR format"
	default:
		return "HR / general fit and motivation"
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
