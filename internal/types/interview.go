package types

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects the interview framing: HR fit, technical depth, or behavioral.
type Mode string

// Interview modes form a closed set.
const (
	ModeHR         Mode = "hr"
	ModeTechnical  Mode = "technical"
	ModeBehavioral Mode = "behavioral"
)

// ValidMode reports whether m is one of the three supported modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeHR, ModeTechnical, ModeBehavioral:
		return true
	}
	return false
}

// InterviewStatus is the session lifecycle state. The only transition is
// in_progress -> completed.
type InterviewStatus string

// Interview status values.
const (
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
)

// QAEntry holds one answered question with its AI feedback. Entries are
// index-aligned with the interview's question list; indices not yet answered
// hold empty placeholders.
type QAEntry struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
	AIFeedback string `json:"aiFeedback"`
	Score      int    `json:"score"`
}

// Scores are the final aggregate dimensions, each 0-100.
type Scores struct {
	Communication  int `json:"communication"`
	Confidence     int `json:"confidence"`
	TechnicalDepth int `json:"technicalDepth"`
}

// Interview is a mock interview session record. ResumeAnalysisID is a weak
// reference: the referenced analysis may be absent without corrupting the
// interview, and it is resolved to a ResumeAnalysisRef only in detail views.
type Interview struct {
	ID                     uuid.UUID       `json:"_id"`
	UserID                 uuid.UUID       `json:"user"`
	ResumeAnalysisID       *uuid.UUID      `json:"-"`
	Mode                   Mode            `json:"mode"`
	Questions              []string        `json:"questions"`
	QA                     []QAEntry       `json:"qa"`
	Scores                 *Scores         `json:"scores"`
	OverallFeedback        string          `json:"overallFeedback,omitempty"`
	ImprovementSuggestions []string        `json:"improvementSuggestions"`
	Status                 InterviewStatus `json:"status"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// InterviewDetail is an interview with its resume reference resolved. The
// ref is null when no resume was attached or the analysis no longer exists.
type InterviewDetail struct {
	Interview
	ResumeAnalysis *ResumeAnalysisRef `json:"resumeAnalysis"`
}

// AnswerEvaluation is the per-answer feedback returned by the AI collaborator.
type AnswerEvaluation struct {
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// FinalReport is the aggregate result produced when an interview is finalized.
type FinalReport struct {
	Communication          int      `json:"communication"`
	Confidence             int      `json:"confidence"`
	TechnicalDepth         int      `json:"technicalDepth"`
	OverallFeedback        string   `json:"overallFeedback"`
	ImprovementSuggestions []string `json:"improvementSuggestions"`
}

// StartInterviewRequest is the request to begin a new interview session.
type StartInterviewRequest struct {
	Mode             Mode   `json:"mode" validate:"required"`
	ResumeAnalysisID string `json:"resumeAnalysisId,omitempty"`
}

// EvaluateRequest is the request to submit one answer for evaluation.
type EvaluateRequest struct {
	InterviewID   string `json:"interviewId" validate:"required"`
	QuestionIndex int    `json:"questionIndex" validate:"gte=0"`
	Question      string `json:"question" validate:"required"`
	UserAnswer    string `json:"userAnswer"`
}

// FeedbackRequest is the request to finalize an interview.
type FeedbackRequest struct {
	InterviewID string `json:"interviewId" validate:"required"`
}
