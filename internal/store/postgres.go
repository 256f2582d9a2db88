package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/types"
)

// PostgresStore implements Store on a PostgreSQL connection pool. Structured
// fields (analysis, questions, qa, scores) are stored as jsonb.
type PostgresStore struct {
	pool      *pgxpool.Pool
	passwords *config.PasswordConfig
}

// ConnectPostgres establishes a connection pool, verifies it and ensures the
// schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string, passwords *config.PasswordConfig) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool, passwords: passwords}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS resume_analyses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			original_filename TEXT NOT NULL,
			extracted_text TEXT NOT NULL,
			analysis JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS interviews (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			resume_analysis_id UUID,
			mode TEXT NOT NULL,
			questions JSONB NOT NULL,
			qa JSONB NOT NULL DEFAULT '[]',
			scores JSONB,
			overall_feedback TEXT NOT NULL DEFAULT '',
			improvement_suggestions JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'in_progress',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateUser stores a new user with a bcrypt-hashed credential.
func (s *PostgresStore) CreateUser(ctx context.Context, name, email, password string) (*types.User, error) {
	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := types.User{ID: uuid.New()}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, TRIM($2), LOWER(TRIM($3)), $4)
		 RETURNING name, email, role, created_at, updated_at`,
		u.ID, name, email, hash,
	).Scan(&u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// FindUserByEmail looks up a user by normalized email.
func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*types.User, error) {
	var u types.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, role, created_at, updated_at
		 FROM users WHERE email = LOWER(TRIM($1))`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &u, nil
}

// FindUserByID returns the credential-free user projection.
func (s *PostgresStore) FindUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	var u types.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, role, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// VerifyCredential compares a raw password against the stored hash.
func (s *PostgresStore) VerifyCredential(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE id = $1`, userID,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load credential: %w", err)
	}
	return s.passwords.VerifyPassword(password, hash), nil
}

// CreateResumeAnalysis inserts a new analysis record.
func (s *PostgresStore) CreateResumeAnalysis(ctx context.Context, ownerID uuid.UUID, filename, text string, analysis types.Analysis) (*types.ResumeAnalysis, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	rec := types.ResumeAnalysis{
		ID:               uuid.New(),
		UserID:           ownerID,
		OriginalFilename: filename,
		ExtractedText:    text,
		Analysis:         analysis,
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO resume_analyses (id, user_id, original_filename, extracted_text, analysis)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		rec.ID, ownerID, filename, text, analysisJSON,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume analysis: %w", err)
	}
	return &rec, nil
}

// FindResumeAnalysesByUser returns summaries most-recent-first, without the
// extracted text.
func (s *PostgresStore) FindResumeAnalysesByUser(ctx context.Context, ownerID uuid.UUID) ([]types.ResumeAnalysisSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, original_filename, analysis, created_at, updated_at
		 FROM resume_analyses WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume analyses: %w", err)
	}
	defer rows.Close()

	out := make([]types.ResumeAnalysisSummary, 0)
	for rows.Next() {
		var item types.ResumeAnalysisSummary
		var analysisJSON []byte
		if err := rows.Scan(&item.ID, &item.UserID, &item.OriginalFilename, &analysisJSON, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume analysis: %w", err)
		}
		if err := json.Unmarshal(analysisJSON, &item.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// FindResumeAnalysisByIDAndUser returns the full record, or nil when absent
// or owned by a different user.
func (s *PostgresStore) FindResumeAnalysisByIDAndUser(ctx context.Context, id, ownerID uuid.UUID) (*types.ResumeAnalysis, error) {
	var rec types.ResumeAnalysis
	var analysisJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, original_filename, extracted_text, analysis, created_at, updated_at
		 FROM resume_analyses WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(&rec.ID, &rec.UserID, &rec.OriginalFilename, &rec.ExtractedText, &analysisJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find resume analysis: %w", err)
	}
	if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &rec, nil
}

// CreateInterview creates a new in-progress session.
func (s *PostgresStore) CreateInterview(ctx context.Context, ownerID uuid.UUID, mode types.Mode, questions []string, resumeAnalysisID *uuid.UUID) (*types.Interview, error) {
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	rec := types.Interview{
		ID:                     uuid.New(),
		UserID:                 ownerID,
		ResumeAnalysisID:       resumeAnalysisID,
		Mode:                   mode,
		Questions:              questions,
		QA:                     []types.QAEntry{},
		ImprovementSuggestions: []string{},
		Status:                 types.StatusInProgress,
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO interviews (id, user_id, resume_analysis_id, mode, questions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		rec.ID, ownerID, resumeAnalysisID, mode, questionsJSON,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return &rec, nil
}

// FindInterviewByIDAndUser returns the session, or nil when absent or owned
// by a different user.
func (s *PostgresStore) FindInterviewByIDAndUser(ctx context.Context, id, ownerID uuid.UUID) (*types.Interview, error) {
	row := s.pool.QueryRow(ctx,
		interviewSelect+` WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	rec, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// UpdateInterview merges the update and refreshes the update timestamp.
func (s *PostgresStore) UpdateInterview(ctx context.Context, id, ownerID uuid.UUID, update InterviewUpdate) (*types.Interview, error) {
	current, err := s.FindInterviewByIDAndUser(ctx, id, ownerID)
	if err != nil || current == nil {
		return nil, err
	}

	if update.QA != nil {
		current.QA = update.QA
	}
	if update.Scores != nil {
		current.Scores = update.Scores
	}
	if update.OverallFeedback != nil {
		current.OverallFeedback = *update.OverallFeedback
	}
	if update.ImprovementSuggestions != nil {
		current.ImprovementSuggestions = update.ImprovementSuggestions
	}
	if update.Status != nil {
		current.Status = *update.Status
	}

	qaJSON, err := json.Marshal(current.QA)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal qa: %w", err)
	}
	suggestionsJSON, err := json.Marshal(current.ImprovementSuggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	var scoresJSON []byte
	if current.Scores != nil {
		scoresJSON, err = json.Marshal(current.Scores)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal scores: %w", err)
		}
	}

	err = s.pool.QueryRow(ctx,
		`UPDATE interviews
		 SET qa = $1, scores = $2, overall_feedback = $3, improvement_suggestions = $4,
		     status = $5, updated_at = NOW()
		 WHERE id = $6 AND user_id = $7
		 RETURNING updated_at`,
		qaJSON, scoresJSON, current.OverallFeedback, suggestionsJSON,
		current.Status, id, ownerID,
	).Scan(&current.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	return current, nil
}

// FindInterviewsByUser returns the user's sessions most-recent-first.
func (s *PostgresStore) FindInterviewsByUser(ctx context.Context, ownerID uuid.UUID) ([]types.Interview, error) {
	rows, err := s.pool.Query(ctx,
		interviewSelect+` WHERE user_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	out := make([]types.Interview, 0)
	for rows.Next() {
		rec, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

const interviewSelect = `SELECT id, user_id, resume_analysis_id, mode, questions, qa, scores,
	overall_feedback, improvement_suggestions, status, created_at, updated_at
	FROM interviews`

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var rec types.Interview
	var questionsJSON, qaJSON, suggestionsJSON []byte
	var scoresJSON []byte
	err := row.Scan(&rec.ID, &rec.UserID, &rec.ResumeAnalysisID, &rec.Mode,
		&questionsJSON, &qaJSON, &scoresJSON,
		&rec.OverallFeedback, &suggestionsJSON, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan interview: %w", err)
	}
	if err := json.Unmarshal(questionsJSON, &rec.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(qaJSON, &rec.QA); err != nil {
		return nil, fmt.Errorf("failed to unmarshal qa: %w", err)
	}
	if err := json.Unmarshal(suggestionsJSON, &rec.ImprovementSuggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	if len(scoresJSON) > 0 {
		rec.Scores = &types.Scores{}
		if err := json.Unmarshal(scoresJSON, rec.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
	}
	return &rec, nil
}
