package types

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the structured result of analyzing a resume. RawResponse keeps
// the unparsed model output for audit.
type Analysis struct {
	Skills          []string `json:"skills"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	RoleSuitability string   `json:"roleSuitability"`
	Summary         string   `json:"summary"`
	RawResponse     string   `json:"rawResponse,omitempty"`
}

// ResumeAnalysis is the full stored record for an uploaded resume.
// Records are immutable after creation.
type ResumeAnalysis struct {
	ID               uuid.UUID `json:"_id"`
	UserID           uuid.UUID `json:"user"`
	OriginalFilename string    `json:"originalFilename"`
	ExtractedText    string    `json:"extractedText"`
	Analysis         Analysis  `json:"analysis"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ResumeAnalysisSummary is the list projection: extracted text is omitted and
// only returned by single-record lookup.
type ResumeAnalysisSummary struct {
	ID               uuid.UUID `json:"_id"`
	UserID           uuid.UUID `json:"user"`
	OriginalFilename string    `json:"originalFilename"`
	Analysis         Analysis  `json:"analysis"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ResumeAnalysisRef is the lightweight summary resolved for an interview's
// weakly-referenced resume analysis.
type ResumeAnalysisRef struct {
	ID               uuid.UUID `json:"_id"`
	OriginalFilename string    `json:"originalFilename"`
	CreatedAt        time.Time `json:"createdAt"`
}
