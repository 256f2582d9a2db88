package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/types"
)

// userRecord is the internal user representation. The credential hash stays
// inside the store; every read path returns a types.User projection instead.
type userRecord struct {
	types.User
	passwordHash string
}

// MemoryStore keeps all records in-process. Data resets on restart; this is
// an accepted limitation of the deployment, not of the Store contract.
type MemoryStore struct {
	mu         sync.RWMutex
	passwords  *config.PasswordConfig
	users      map[uuid.UUID]*userRecord
	emails     map[string]uuid.UUID
	analyses   []*types.ResumeAnalysis
	interviews []*types.Interview
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore(passwords *config.PasswordConfig) *MemoryStore {
	return &MemoryStore{
		passwords: passwords,
		users:     make(map[uuid.UUID]*userRecord),
		emails:    make(map[string]uuid.UUID),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user with a bcrypt-hashed credential.
func (m *MemoryStore) CreateUser(_ context.Context, name, email, password string) (*types.User, error) {
	hash, err := m.passwords.HashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := normalizeEmail(email)
	if _, exists := m.emails[normalized]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	rec := &userRecord{
		User: types.User{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(name),
			Email:     normalized,
			Role:      "user",
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	m.users[rec.ID] = rec
	m.emails[normalized] = rec.ID

	u := rec.User
	return &u, nil
}

// FindUserByEmail looks up a user by normalized email.
func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := m.users[id].User
	return &u, nil
}

// FindUserByID returns the credential-free user projection.
func (m *MemoryStore) FindUserByID(_ context.Context, id uuid.UUID) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u := rec.User
	return &u, nil
}

// VerifyCredential compares a raw password against the stored hash.
func (m *MemoryStore) VerifyCredential(_ context.Context, userID uuid.UUID, password string) (bool, error) {
	m.mu.RLock()
	rec, ok := m.users[userID]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return m.passwords.VerifyPassword(password, rec.passwordHash), nil
}

// CreateResumeAnalysis inserts a new record at the head of the collection.
func (m *MemoryStore) CreateResumeAnalysis(_ context.Context, ownerID uuid.UUID, filename, text string, analysis types.Analysis) (*types.ResumeAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec := &types.ResumeAnalysis{
		ID:               uuid.New(),
		UserID:           ownerID,
		OriginalFilename: filename,
		ExtractedText:    text,
		Analysis:         analysis,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.analyses = append([]*types.ResumeAnalysis{rec}, m.analyses...)

	out := *rec
	return &out, nil
}

// FindResumeAnalysesByUser returns the user's analyses most-recent-first,
// with extracted text omitted from the summary projection.
func (m *MemoryStore) FindResumeAnalysesByUser(_ context.Context, ownerID uuid.UUID) ([]types.ResumeAnalysisSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.ResumeAnalysisSummary, 0)
	for _, r := range m.analyses {
		if r.UserID != ownerID {
			continue
		}
		out = append(out, types.ResumeAnalysisSummary{
			ID:               r.ID,
			UserID:           r.UserID,
			OriginalFilename: r.OriginalFilename,
			Analysis:         r.Analysis,
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.UpdatedAt,
		})
	}
	return out, nil
}

// FindResumeAnalysisByIDAndUser returns the full record, or nil when absent
// or owned by a different user.
func (m *MemoryStore) FindResumeAnalysisByIDAndUser(_ context.Context, id, ownerID uuid.UUID) (*types.ResumeAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.analyses {
		if r.ID == id && r.UserID == ownerID {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

// CreateInterview creates a new in-progress session with an empty QA sequence.
func (m *MemoryStore) CreateInterview(_ context.Context, ownerID uuid.UUID, mode types.Mode, questions []string, resumeAnalysisID *uuid.UUID) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec := &types.Interview{
		ID:                     uuid.New(),
		UserID:                 ownerID,
		ResumeAnalysisID:       resumeAnalysisID,
		Mode:                   mode,
		Questions:              questions,
		QA:                     []types.QAEntry{},
		ImprovementSuggestions: []string{},
		Status:                 types.StatusInProgress,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	m.interviews = append([]*types.Interview{rec}, m.interviews...)

	out := copyInterview(rec)
	return &out, nil
}

// FindInterviewByIDAndUser returns the session, or nil when absent or owned
// by a different user.
func (m *MemoryStore) FindInterviewByIDAndUser(_ context.Context, id, ownerID uuid.UUID) (*types.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec := m.findInterviewLocked(id, ownerID)
	if rec == nil {
		return nil, nil
	}
	out := copyInterview(rec)
	return &out, nil
}

// UpdateInterview merges the update into the session and refreshes the
// update timestamp. Absent sessions yield (nil, nil), never an error.
func (m *MemoryStore) UpdateInterview(_ context.Context, id, ownerID uuid.UUID, update InterviewUpdate) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.findInterviewLocked(id, ownerID)
	if rec == nil {
		return nil, nil
	}

	if update.QA != nil {
		rec.QA = append([]types.QAEntry(nil), update.QA...)
	}
	if update.Scores != nil {
		s := *update.Scores
		rec.Scores = &s
	}
	if update.OverallFeedback != nil {
		rec.OverallFeedback = *update.OverallFeedback
	}
	if update.ImprovementSuggestions != nil {
		rec.ImprovementSuggestions = append([]string(nil), update.ImprovementSuggestions...)
	}
	if update.Status != nil {
		rec.Status = *update.Status
	}
	rec.UpdatedAt = time.Now()

	out := copyInterview(rec)
	return &out, nil
}

// FindInterviewsByUser returns the user's sessions most-recent-first.
func (m *MemoryStore) FindInterviewsByUser(_ context.Context, ownerID uuid.UUID) ([]types.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Interview, 0)
	for _, rec := range m.interviews {
		if rec.UserID == ownerID {
			out = append(out, copyInterview(rec))
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() {}

func (m *MemoryStore) findInterviewLocked(id, ownerID uuid.UUID) *types.Interview {
	for _, rec := range m.interviews {
		if rec.ID == id && rec.UserID == ownerID {
			return rec
		}
	}
	return nil
}

// copyInterview returns a deep copy so callers never alias store internals.
func copyInterview(rec *types.Interview) types.Interview {
	out := *rec
	out.Questions = append([]string(nil), rec.Questions...)
	out.QA = append([]types.QAEntry(nil), rec.QA...)
	out.ImprovementSuggestions = append([]string(nil), rec.ImprovementSuggestions...)
	if rec.Scores != nil {
		s := *rec.Scores
		out.Scores = &s
	}
	if rec.ResumeAnalysisID != nil {
		ref := *rec.ResumeAnalysisID
		out.ResumeAnalysisID = &ref
	}
	return out
}
