package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/mock-interview/internal/store"
	"github.com/jonathan/mock-interview/internal/types"
)

// ContentGenerator is the AI collaborator contract the manager depends on.
type ContentGenerator interface {
	GenerateQuestions(ctx context.Context, resumeText string, analysis *types.Analysis, mode types.Mode) ([]string, error)
	EvaluateAnswer(ctx context.Context, question, answer string, mode types.Mode) (*types.AnswerEvaluation, error)
	FinalFeedback(ctx context.Context, qa []types.QAEntry, mode types.Mode) (*types.FinalReport, error)
}

// Manager orchestrates interview session state transitions. The only
// lifecycle transition is in_progress -> completed; abandoned sessions
// simply stay in_progress.
type Manager struct {
	store     store.Store
	generator ContentGenerator
}

// NewManager creates a session manager with the given dependencies.
func NewManager(st store.Store, generator ContentGenerator) *Manager {
	return &Manager{store: st, generator: generator}
}

// StartResult is the outcome of starting a new interview session.
type StartResult struct {
	InterviewID uuid.UUID `json:"interviewId"`
	Questions   []string  `json:"questions"`
}

// Start validates the mode, resolves the optional resume reference and
// creates a new in-progress session with generated questions. A resume
// reference that is absent or not owned by the user is ignored rather than
// rejected: resume personalization is best-effort. A generator failure is
// returned as UnavailableError so the session is never started with
// degraded questions.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID, mode types.Mode, resumeAnalysisID *uuid.UUID) (*StartResult, error) {
	if !types.ValidMode(mode) {
		return nil, ErrInvalidMode
	}

	var resumeText string
	var analysis *types.Analysis
	var resumeRef *uuid.UUID
	if resumeAnalysisID != nil {
		doc, err := m.store.FindResumeAnalysisByIDAndUser(ctx, *resumeAnalysisID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve resume analysis: %w", err)
		}
		if doc != nil {
			resumeText = doc.ExtractedText
			analysis = &doc.Analysis
			resumeRef = &doc.ID
		}
	}

	questions, err := m.generator.GenerateQuestions(ctx, resumeText, analysis, mode)
	if err != nil {
		return nil, &UnavailableError{Op: "question generation", Err: err}
	}

	interview, err := m.store.CreateInterview(ctx, userID, mode, questions, resumeRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	return &StartResult{InterviewID: interview.ID, Questions: interview.Questions}, nil
}

// SubmitAnswer evaluates one answer and writes the QA entry at the given
// index. Indices beyond the current sequence length are reached by padding
// with empty placeholders, so out-of-order or retried submissions never fail.
func (m *Manager) SubmitAnswer(ctx context.Context, userID, interviewID uuid.UUID, questionIndex int, question, answer string) (*types.AnswerEvaluation, error) {
	if questionIndex < 0 {
		return nil, fmt.Errorf("question index must not be negative: %d", questionIndex)
	}

	interview, err := m.store.FindInterviewByIDAndUser(ctx, interviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interview: %w", err)
	}
	if interview == nil {
		return nil, &NotFoundError{Resource: "interview session"}
	}

	eval, err := m.generator.EvaluateAnswer(ctx, question, answer, interview.Mode)
	if err != nil {
		return nil, &UnavailableError{Op: "answer evaluation", Err: err}
	}

	qa := interview.QA
	for len(qa) <= questionIndex {
		qa = append(qa, types.QAEntry{})
	}
	qa[questionIndex] = types.QAEntry{
		Question:   question,
		UserAnswer: answer,
		AIFeedback: eval.Feedback,
		Score:      eval.Score,
	}

	if _, err := m.store.UpdateInterview(ctx, interviewID, userID, store.InterviewUpdate{QA: qa}); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	return eval, nil
}

// FinalizeResult is the outcome of finalizing an interview.
type FinalizeResult struct {
	Scores                 types.Scores `json:"scores"`
	OverallFeedback        string       `json:"overallFeedback"`
	ImprovementSuggestions []string     `json:"improvementSuggestions"`
}

// Finalize aggregates the session's Q&A into final scores and marks the
// session completed. Re-finalizing a completed session overwrites the
// aggregate with a fresh one. On generator failure the session status is
// left unchanged.
func (m *Manager) Finalize(ctx context.Context, userID, interviewID uuid.UUID) (*FinalizeResult, error) {
	interview, err := m.store.FindInterviewByIDAndUser(ctx, interviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interview: %w", err)
	}
	if interview == nil {
		return nil, &NotFoundError{Resource: "interview session"}
	}

	report, err := m.generator.FinalFeedback(ctx, interview.QA, interview.Mode)
	if err != nil {
		return nil, &UnavailableError{Op: "final feedback", Err: err}
	}

	scores := types.Scores{
		Communication:  report.Communication,
		Confidence:     report.Confidence,
		TechnicalDepth: report.TechnicalDepth,
	}
	suggestions := report.ImprovementSuggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	completed := types.StatusCompleted
	updated, err := m.store.UpdateInterview(ctx, interviewID, userID, store.InterviewUpdate{
		Scores:                 &scores,
		OverallFeedback:        &report.OverallFeedback,
		ImprovementSuggestions: suggestions,
		Status:                 &completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save final feedback: %w", err)
	}
	if updated == nil {
		return nil, &NotFoundError{Resource: "interview session"}
	}

	return &FinalizeResult{
		Scores:                 *updated.Scores,
		OverallFeedback:        updated.OverallFeedback,
		ImprovementSuggestions: updated.ImprovementSuggestions,
	}, nil
}

// History returns the user's sessions with resume references resolved.
func (m *Manager) History(ctx context.Context, userID uuid.UUID) ([]types.InterviewDetail, error) {
	interviews, err := m.store.FindInterviewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview history: %w", err)
	}

	out := make([]types.InterviewDetail, 0, len(interviews))
	for _, interview := range interviews {
		detail, err := m.resolveDetail(ctx, userID, interview)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

// Get returns one session with its resume reference resolved.
func (m *Manager) Get(ctx context.Context, userID, interviewID uuid.UUID) (*types.InterviewDetail, error) {
	interview, err := m.store.FindInterviewByIDAndUser(ctx, interviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return nil, &NotFoundError{Resource: "interview"}
	}

	detail, err := m.resolveDetail(ctx, userID, *interview)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// resolveDetail resolves the weakly-referenced resume analysis into a
// lightweight summary. An absent referent yields a null ref, never an error.
func (m *Manager) resolveDetail(ctx context.Context, userID uuid.UUID, interview types.Interview) (types.InterviewDetail, error) {
	detail := types.InterviewDetail{Interview: interview}
	if interview.ResumeAnalysisID == nil {
		return detail, nil
	}

	doc, err := m.store.FindResumeAnalysisByIDAndUser(ctx, *interview.ResumeAnalysisID, userID)
	if err != nil {
		return detail, fmt.Errorf("failed to resolve resume analysis: %w", err)
	}
	if doc != nil {
		detail.ResumeAnalysis = &types.ResumeAnalysisRef{
			ID:               doc.ID,
			OriginalFilename: doc.OriginalFilename,
			CreatedAt:        doc.CreatedAt,
		}
	}
	return detail, nil
}
