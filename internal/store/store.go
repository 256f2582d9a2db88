// Package store provides identity-keyed storage and user-scoped retrieval for
// users, resume analyses and interviews. All lookups are scoped to the owning
// user: a record that exists but belongs to someone else is indistinguishable
// from one that does not exist.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonathan/mock-interview/internal/types"
)

// ErrDuplicateEmail indicates the normalized email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// InterviewUpdate carries a partial interview update. Nil fields are left
// untouched; the store refreshes the update timestamp on every merge.
type InterviewUpdate struct {
	QA                     []types.QAEntry
	Scores                 *types.Scores
	OverallFeedback        *string
	ImprovementSuggestions []string
	Status                 *types.InterviewStatus
}

// Store is the record store contract. "Not found" is reported as (nil, nil);
// a non-nil error always means infrastructure failure, never absence.
type Store interface {
	// CreateUser stores a new user with a one-way-hashed credential.
	// Returns ErrDuplicateEmail if the normalized email already exists.
	CreateUser(ctx context.Context, name, email, password string) (*types.User, error)
	// FindUserByEmail matches case-insensitively on the trimmed email.
	FindUserByEmail(ctx context.Context, email string) (*types.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	// VerifyCredential compares a raw password against the stored hash.
	// The hash itself is never exposed.
	VerifyCredential(ctx context.Context, userID uuid.UUID, password string) (bool, error)

	// CreateResumeAnalysis inserts at the head of the user's collection;
	// most-recent-first ordering is an observable contract.
	CreateResumeAnalysis(ctx context.Context, ownerID uuid.UUID, filename, text string, analysis types.Analysis) (*types.ResumeAnalysis, error)
	FindResumeAnalysesByUser(ctx context.Context, ownerID uuid.UUID) ([]types.ResumeAnalysisSummary, error)
	FindResumeAnalysisByIDAndUser(ctx context.Context, id, ownerID uuid.UUID) (*types.ResumeAnalysis, error)

	CreateInterview(ctx context.Context, ownerID uuid.UUID, mode types.Mode, questions []string, resumeAnalysisID *uuid.UUID) (*types.Interview, error)
	FindInterviewByIDAndUser(ctx context.Context, id, ownerID uuid.UUID) (*types.Interview, error)
	UpdateInterview(ctx context.Context, id, ownerID uuid.UUID, update InterviewUpdate) (*types.Interview, error)
	FindInterviewsByUser(ctx context.Context, ownerID uuid.UUID) ([]types.Interview, error)

	Close()
}
