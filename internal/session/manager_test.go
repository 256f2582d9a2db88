package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/store"
	"github.com/jonathan/mock-interview/internal/types"
)

// fakeGenerator is a deterministic ContentGenerator for driving the manager.
type fakeGenerator struct {
	questions    []string
	questionsErr error
	evalErr      error
	reportErr    error
	sawResume    string
	sawAnalysis  *types.Analysis
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, resumeText string, analysis *types.Analysis, _ types.Mode) ([]string, error) {
	f.sawResume = resumeText
	f.sawAnalysis = analysis
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	if f.questions != nil {
		return f.questions, nil
	}
	return []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, nil
}

func (f *fakeGenerator) EvaluateAnswer(_ context.Context, _, answer string, _ types.Mode) (*types.AnswerEvaluation, error) {
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	score := 50
	if len(answer) > 10 {
		score = 70
	}
	return &types.AnswerEvaluation{Feedback: "noted", Score: score}, nil
}

func (f *fakeGenerator) FinalFeedback(_ context.Context, qa []types.QAEntry, _ types.Mode) (*types.FinalReport, error) {
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return &types.FinalReport{
		Communication:          75,
		Confidence:             70,
		TechnicalDepth:         80,
		OverallFeedback:        "good session",
		ImprovementSuggestions: []string{"practice"},
	}, nil
}

func newTestManager(t *testing.T) (*Manager, store.Store, uuid.UUID) {
	t.Helper()
	st := store.NewMemoryStore(&config.PasswordConfig{BcryptCost: 4})
	user, err := st.CreateUser(context.Background(), "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	return NewManager(st, &fakeGenerator{}), st, user.ID
}

func TestStart_InvalidMode(t *testing.T) {
	mgr, _, userID := newTestManager(t)

	result, err := mgr.Start(context.Background(), userID, types.Mode("chaotic"), nil)
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Nil(t, result)
}

func TestStart_CreatesInProgressSession(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	result, err := mgr.Start(ctx, userID, types.ModeTechnical, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Questions, 5)

	interview, err := st.FindInterviewByIDAndUser(ctx, result.InterviewID, userID)
	require.NoError(t, err)
	require.NotNil(t, interview)
	assert.Equal(t, types.StatusInProgress, interview.Status)
	assert.Equal(t, types.ModeTechnical, interview.Mode)
	assert.Empty(t, interview.QA)
}

func TestStart_ResumePersonalization(t *testing.T) {
	st := store.NewMemoryStore(&config.PasswordConfig{BcryptCost: 4})
	ctx := context.Background()
	user, err := st.CreateUser(ctx, "Bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	doc, err := st.CreateResumeAnalysis(ctx, user.ID, "resume.pdf", "extracted resume body",
		types.Analysis{Summary: "backend engineer"})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	mgr := NewManager(st, gen)

	result, err := mgr.Start(ctx, user.ID, types.ModeHR, &doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracted resume body", gen.sawResume)
	require.NotNil(t, gen.sawAnalysis)
	assert.Equal(t, "backend engineer", gen.sawAnalysis.Summary)

	detail, err := mgr.Get(ctx, user.ID, result.InterviewID)
	require.NoError(t, err)
	require.NotNil(t, detail.ResumeAnalysis)
	assert.Equal(t, doc.ID, detail.ResumeAnalysis.ID)
	assert.Equal(t, "resume.pdf", detail.ResumeAnalysis.OriginalFilename)
}

func TestStart_AbsentResumeIsIgnored(t *testing.T) {
	mgr, _, userID := newTestManager(t)
	missing := uuid.New()

	result, err := mgr.Start(context.Background(), userID, types.ModeHR, &missing)
	require.NoError(t, err, "a dangling resume reference must not block the interview")
	assert.NotNil(t, result)
}

func TestStart_GeneratorFailure(t *testing.T) {
	st := store.NewMemoryStore(&config.PasswordConfig{BcryptCost: 4})
	ctx := context.Background()
	user, err := st.CreateUser(ctx, "Carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	mgr := NewManager(st, &fakeGenerator{questionsErr: errors.New("provider down")})

	result, err := mgr.Start(ctx, user.ID, types.ModeHR, nil)
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Nil(t, result)

	// No half-created session is left behind.
	list, err := st.FindInterviewsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitAnswer_RecordsEntry(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	started, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)

	eval, err := mgr.SubmitAnswer(ctx, userID, started.InterviewID, 0, "Q1", "a substantial answer")
	require.NoError(t, err)
	assert.Equal(t, 70, eval.Score)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	require.Len(t, interview.QA, 1)
	assert.Equal(t, "Q1", interview.QA[0].Question)
	assert.Equal(t, "a substantial answer", interview.QA[0].UserAnswer)
	assert.Equal(t, 70, interview.QA[0].Score)
}

func TestSubmitAnswer_OutOfOrderPadsWithPlaceholders(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	started, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(ctx, userID, started.InterviewID, 3, "Q4", "answered out of order")
	require.NoError(t, err)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	require.Len(t, interview.QA, 4)
	assert.Empty(t, interview.QA[0].Question, "skipped indices hold empty placeholders")
	assert.Equal(t, "Q4", interview.QA[3].Question)

	// Filling an earlier index later keeps the sequence intact.
	_, err = mgr.SubmitAnswer(ctx, userID, started.InterviewID, 1, "Q2", "late but present")
	require.NoError(t, err)

	interview, err = st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	require.Len(t, interview.QA, 4)
	assert.Equal(t, "Q2", interview.QA[1].Question)
	assert.Equal(t, "Q4", interview.QA[3].Question)
}

func TestSubmitAnswer_Retry_Overwrites(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	started, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(ctx, userID, started.InterviewID, 0, "Q1", "first try")
	require.NoError(t, err)
	_, err = mgr.SubmitAnswer(ctx, userID, started.InterviewID, 0, "Q1", "a much better second try")
	require.NoError(t, err)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	require.Len(t, interview.QA, 1)
	assert.Equal(t, "a much better second try", interview.QA[0].UserAnswer)
}

func TestSubmitAnswer_NegativeIndex(t *testing.T) {
	mgr, _, userID := newTestManager(t)

	_, err := mgr.SubmitAnswer(context.Background(), userID, uuid.New(), -1, "Q", "A")
	assert.Error(t, err)
}

func TestSubmitAnswer_UnknownInterview(t *testing.T) {
	mgr, _, userID := newTestManager(t)

	_, err := mgr.SubmitAnswer(context.Background(), userID, uuid.New(), 0, "Q", "A")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSubmitAnswer_OtherUsersSessionIsNotFound(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	other, err := st.CreateUser(ctx, "Mallory", "mallory@example.com", "secret123")
	require.NoError(t, err)

	started, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(ctx, other.ID, started.InterviewID, 0, "Q1", "stolen session")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFinalize_CompletesSession(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	started, err := mgr.Start(ctx, userID, types.ModeTechnical, nil)
	require.NoError(t, err)
	_, err = mgr.SubmitAnswer(ctx, userID, started.InterviewID, 0, "Q1", "a substantial answer")
	require.NoError(t, err)

	result, err := mgr.Finalize(ctx, userID, started.InterviewID)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Scores.TechnicalDepth)
	assert.Equal(t, "good session", result.OverallFeedback)
	assert.NotEmpty(t, result.ImprovementSuggestions)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, interview.Status)
}

func TestFinalize_GeneratorFailureLeavesStatusUnchanged(t *testing.T) {
	st := store.NewMemoryStore(&config.PasswordConfig{BcryptCost: 4})
	ctx := context.Background()
	user, err := st.CreateUser(ctx, "Dave", "dave@example.com", "secret123")
	require.NoError(t, err)

	gen := &fakeGenerator{}
	mgr := NewManager(st, gen)

	started, err := mgr.Start(ctx, user.ID, types.ModeHR, nil)
	require.NoError(t, err)

	gen.reportErr = errors.New("provider down")
	result, err := mgr.Finalize(ctx, user.ID, started.InterviewID)
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Nil(t, result)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, interview.Status, "failed finalize must not mark the session completed")
}

func TestFinalize_Refinalize_Overwrites(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	started, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)

	first, err := mgr.Finalize(ctx, userID, started.InterviewID)
	require.NoError(t, err)
	second, err := mgr.Finalize(ctx, userID, started.InterviewID)
	require.NoError(t, err)
	assert.Equal(t, first.Scores, second.Scores)

	interview, err := st.FindInterviewByIDAndUser(ctx, started.InterviewID, userID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, interview.Status)
}

func TestHistory_UserScopedMostRecentFirst(t *testing.T) {
	mgr, st, userID := newTestManager(t)
	ctx := context.Background()

	other, err := st.CreateUser(ctx, "Erin", "erin@example.com", "secret123")
	require.NoError(t, err)

	first, err := mgr.Start(ctx, userID, types.ModeHR, nil)
	require.NoError(t, err)
	second, err := mgr.Start(ctx, userID, types.ModeBehavioral, nil)
	require.NoError(t, err)
	_, err = mgr.Start(ctx, other.ID, types.ModeHR, nil)
	require.NoError(t, err)

	history, err := mgr.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.InterviewID, history[0].ID)
	assert.Equal(t, first.InterviewID, history[1].ID)
}

func TestGet_UnknownInterview(t *testing.T) {
	mgr, _, userID := newTestManager(t)

	detail, err := mgr.Get(context.Background(), userID, uuid.New())
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Nil(t, detail)
}
