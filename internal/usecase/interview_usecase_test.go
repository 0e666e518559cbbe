package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init()
}

// Mock Repositories

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.InterviewSession) error {
	return m.Called(ctx, session).Error(0)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSession), args.Error(1)
}
func (m *MockSessionRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.InterviewSession, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterviewSession), args.Error(1)
}
func (m *MockSessionRepo) AppendQuestion(ctx context.Context, id string, q domain.Question) error {
	return m.Called(ctx, id, q).Error(0)
}
func (m *MockSessionRepo) AppendAnswer(ctx context.Context, id string, a domain.Answer) error {
	return m.Called(ctx, id, a).Error(0)
}
func (m *MockSessionRepo) SetRoundAverage(ctx context.Context, id string, round, value int) error {
	return m.Called(ctx, id, round, value).Error(0)
}
func (m *MockSessionRepo) SetCurrentRound(ctx context.Context, id string, round int) error {
	return m.Called(ctx, id, round).Error(0)
}
func (m *MockSessionRepo) SetStatus(ctx context.Context, id string, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockSessionRepo) SetFinalScore(ctx context.Context, id string, score int) error {
	return m.Called(ctx, id, score).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) SetEmailVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) ApplyInterviewResult(ctx context.Context, id string, finalScore int) error {
	return m.Called(ctx, id, finalScore).Error(0)
}

// Mock Gateways

type MockQuestionGW struct {
	mock.Mock
}

func (m *MockQuestionGW) GenerateQuestion(ctx context.Context, req domain.QuestionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockEvaluationGW struct {
	mock.Mock
}

func (m *MockEvaluationGW) EvaluateAnswer(ctx context.Context, question, answer, interviewerRole string) (domain.Evaluation, error) {
	args := m.Called(ctx, question, answer, interviewerRole)
	return args.Get(0).(domain.Evaluation), args.Error(1)
}

type MockFeedbackGW struct {
	mock.Mock
}

func (m *MockFeedbackGW) RoundSuggestions(ctx context.Context, round int, candidateName string, answers []domain.Answer) (string, error) {
	args := m.Called(ctx, round, candidateName, answers)
	return args.String(0), args.Error(1)
}
func (m *MockFeedbackGW) FinalFeedback(ctx context.Context, session *domain.InterviewSession) (string, error) {
	args := m.Called(ctx, session)
	return args.String(0), args.Error(1)
}

type sequencerMocks struct {
	sessions *MockSessionRepo
	users    *MockUserRepo
	question *MockQuestionGW
	eval     *MockEvaluationGW
	feedback *MockFeedbackGW
}

func newSequencer(questionsPerRound int) (domain.InterviewUsecase, *sequencerMocks) {
	m := &sequencerMocks{
		sessions: new(MockSessionRepo),
		users:    new(MockUserRepo),
		question: new(MockQuestionGW),
		eval:     new(MockEvaluationGW),
		feedback: new(MockFeedbackGW),
	}
	uc := usecase.NewInterviewUsecase(m.sessions, m.users, m.question, m.eval, m.feedback, nil, questionsPerRound)
	return uc, m
}

func uniformEval(score int) domain.Evaluation {
	return domain.Evaluation{Clarity: score, Relevance: score, Completeness: score, Confidence: score, Feedback: "ok"}
}

func activeSession(questionsPerRound int) *domain.InterviewSession {
	return &domain.InterviewSession{
		ID:                "sess-1",
		UserID:            "user-1",
		Role:              "Backend Engineer",
		ExperienceLevel:   "mid",
		Domain:            "software",
		QuestionsPerRound: questionsPerRound,
		CurrentRound:      domain.RoundHR,
		Status:            domain.SessionStatusActive,
		RoundAverages:     map[int]int{},
	}
}

func TestCreateSession(t *testing.T) {
	t.Run("Starts in round 1 with an opening question", func(t *testing.T) {
		uc, m := newSequencer(5)
		m.sessions.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("Tell me about yourself.", nil)
		m.sessions.On("AppendQuestion", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		session, err := uc.CreateSession(context.Background(), "user-1", domain.CreateSessionInput{Role: "Backend Engineer"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoundHR, session.CurrentRound)
		assert.Equal(t, domain.SessionStatusActive, session.Status)
		require.Len(t, session.Questions, 1)
		assert.Equal(t, "Tell me about yourself.", session.Questions[0].Text)
	})

	t.Run("Requires a role", func(t *testing.T) {
		uc, _ := newSequencer(5)
		_, err := uc.CreateSession(context.Background(), "user-1", domain.CreateSessionInput{})
		assert.Error(t, err)
	})

	t.Run("Falls back to a canned question when the gateway fails", func(t *testing.T) {
		uc, m := newSequencer(5)
		m.sessions.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("", errors.New("provider down"))
		m.sessions.On("AppendQuestion", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		session, err := uc.CreateSession(context.Background(), "user-1", domain.CreateSessionInput{Role: "Backend Engineer"})
		require.NoError(t, err)
		require.Len(t, session.Questions, 1)
		assert.NotEmpty(t, session.Questions[0].Text)
	})

	t.Run("Quota exhaustion surfaces as 429", func(t *testing.T) {
		uc, m := newSequencer(5)
		m.sessions.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).
			Return("", &domain.QuotaExceededError{RetryAfter: 30})

		_, err := uc.CreateSession(context.Background(), "user-1", domain.CreateSessionInput{Role: "Backend Engineer"})
		require.Error(t, err)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusTooManyRequests, appErr.Code)
		assert.Equal(t, 30, appErr.RetryAfter)
	})
}

func TestSubmitAnswer(t *testing.T) {
	t.Run("Evaluates and asks the next question", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.eval.On("EvaluateAnswer", mock.Anything, "Q1", "my answer", "hr").Return(uniformEval(80), nil)
		m.sessions.On("AppendAnswer", mock.Anything, "sess-1", mock.Anything).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("Q2", nil)
		m.sessions.On("AppendQuestion", mock.Anything, "sess-1", mock.Anything).Return(nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "my answer")
		require.NoError(t, err)
		assert.Equal(t, 80, result.Score)
		assert.Equal(t, 1, result.AnsweredInRound)
		assert.False(t, result.RoundComplete)
		require.NotNil(t, result.NextQuestion)
		assert.Equal(t, "Q2", result.NextQuestion.Text)
	})

	t.Run("Failing evaluator scores neutral 70", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.eval.On("EvaluateAnswer", mock.Anything, "Q1", "my answer", "hr").
			Return(domain.Evaluation{}, errors.New("parse error"))
		m.sessions.On("AppendAnswer", mock.Anything, "sess-1", mock.Anything).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("Q2", nil)
		m.sessions.On("AppendQuestion", mock.Anything, "sess-1", mock.Anything).Return(nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "my answer")
		require.NoError(t, err)
		assert.Equal(t, 70, result.Score)
	})

	t.Run("Quota exhaustion propagates and nothing is recorded", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.eval.On("EvaluateAnswer", mock.Anything, "Q1", "my answer", "hr").
			Return(domain.Evaluation{}, &domain.QuotaExceededError{RetryAfter: 45})

		_, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "my answer")
		require.Error(t, err)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusTooManyRequests, appErr.Code)
		assert.Equal(t, 45, appErr.RetryAfter)
		m.sessions.AssertNotCalled(t, "AppendAnswer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Last answer closes the round and records its average once", func(t *testing.T) {
		uc, m := newSequencer(2)
		session := activeSession(2)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}, {Round: 1, Text: "Q2"}}
		session.Answers = []domain.Answer{{Round: 1, Question: "Q1", Evaluation: uniformEval(80)}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.eval.On("EvaluateAnswer", mock.Anything, "Q2", "second answer", "hr").Return(uniformEval(90), nil)
		m.sessions.On("AppendAnswer", mock.Anything, "sess-1", mock.Anything).Return(nil)
		m.sessions.On("SetRoundAverage", mock.Anything, "sess-1", 1, 85).Return(nil)
		m.feedback.On("RoundSuggestions", mock.Anything, 1, mock.Anything, mock.Anything).Return("keep it up", nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "second answer")
		require.NoError(t, err)
		assert.True(t, result.RoundComplete)
		require.NotNil(t, result.RoundAverage)
		assert.Equal(t, 85, *result.RoundAverage)
		assert.Equal(t, "keep it up", result.Suggestions)
		assert.Nil(t, result.NextQuestion)
		assert.False(t, result.InterviewComplete)
	})

	t.Run("Full round short-circuits without taking another answer", func(t *testing.T) {
		uc, m := newSequencer(1)
		session := activeSession(1)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		session.Answers = []domain.Answer{{Round: 1, Question: "Q1", Evaluation: uniformEval(75)}}
		session.RoundAverages = map[int]int{1: 75}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.feedback.On("RoundSuggestions", mock.Anything, 1, mock.Anything, mock.Anything).Return("done", nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "extra answer")
		require.NoError(t, err)
		assert.True(t, result.RoundComplete)
		require.NotNil(t, result.RoundAverage)
		assert.Equal(t, 75, *result.RoundAverage)
		m.eval.AssertNotCalled(t, "EvaluateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.sessions.AssertNotCalled(t, "SetRoundAverage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Final round completion seals the interview and updates stats", func(t *testing.T) {
		uc, m := newSequencer(1)
		session := activeSession(1)
		session.CurrentRound = domain.RoundManager
		session.Questions = []domain.Question{{Round: 3, Text: "Q3"}}
		session.RoundAverages = map[int]int{1: 80, 2: 70}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.eval.On("EvaluateAnswer", mock.Anything, "Q3", "final answer", "manager").Return(uniformEval(90), nil)
		m.sessions.On("AppendAnswer", mock.Anything, "sess-1", mock.Anything).Return(nil)
		m.sessions.On("SetRoundAverage", mock.Anything, "sess-1", 3, 90).Return(nil)
		m.feedback.On("RoundSuggestions", mock.Anything, 3, mock.Anything, mock.Anything).Return("well done", nil)
		// (80+70+90)/3 = 80
		m.sessions.On("SetFinalScore", mock.Anything, "sess-1", 80).Return(nil)
		m.sessions.On("SetStatus", mock.Anything, "sess-1", domain.SessionStatusCompleted).Return(nil)
		m.users.On("ApplyInterviewResult", mock.Anything, "user-1", 80).Return(nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "final answer")
		require.NoError(t, err)
		assert.True(t, result.RoundComplete)
		assert.True(t, result.InterviewComplete)
		require.NotNil(t, result.FinalScore)
		assert.Equal(t, 80, *result.FinalScore)
		m.sessions.AssertExpectations(t)
		m.users.AssertExpectations(t)
	})

	t.Run("Retry after a quota-interrupted follow-up heals the session", func(t *testing.T) {
		// The previous submit recorded the answer but the provider's quota ran
		// out before the next question could be issued: every asked question is
		// answered, the round has room, and nothing is pending.
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		session.Answers = []domain.Answer{{Round: 1, Question: "Q1", Evaluation: uniformEval(80)}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("Q2", nil)
		m.sessions.On("AppendQuestion", mock.Anything, "sess-1", mock.Anything).Return(nil)

		result, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "my answer")
		require.NoError(t, err)
		require.NotNil(t, result.NextQuestion)
		assert.Equal(t, "Q2", result.NextQuestion.Text)
		assert.Equal(t, 80, result.Score)
		assert.Equal(t, 1, result.AnsweredInRound)
		// The retried answer must not be evaluated or recorded a second time
		m.eval.AssertNotCalled(t, "EvaluateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.sessions.AssertNotCalled(t, "AppendAnswer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Answer with no question asked yet is rejected", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		_, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "answer")
		require.Error(t, err)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("Paused session rejects answers", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusPaused
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		_, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "answer")
		assert.Error(t, err)
	})

	t.Run("Foreign session reads as not found", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.UserID = "someone-else"
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		_, err := uc.SubmitAnswer(context.Background(), "user-1", "sess-1", "answer")
		require.Error(t, err)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})
}

func TestContinueRound(t *testing.T) {
	t.Run("Advances to the next round with an opening question", func(t *testing.T) {
		uc, m := newSequencer(1)
		session := activeSession(1)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		session.Answers = []domain.Answer{{Round: 1, Question: "Q1", Evaluation: uniformEval(80)}}
		session.RoundAverages = map[int]int{1: 80}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.sessions.On("SetCurrentRound", mock.Anything, "sess-1", 2).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.MatchedBy(func(req domain.QuestionRequest) bool {
			return req.Round == 2 && req.InterviewerRole == "technical"
		})).Return("Explain a hard bug.", nil)
		m.sessions.On("AppendQuestion", mock.Anything, "sess-1", mock.Anything).Return(nil)

		question, err := uc.ContinueRound(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		assert.Equal(t, 2, question.Round)
		assert.Equal(t, "Explain a hard bug.", question.Text)
	})

	t.Run("Rejected while the round is still in progress", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		_, err := uc.ContinueRound(context.Background(), "user-1", "sess-1")
		assert.Error(t, err)
	})

	t.Run("Never advances past the final round", func(t *testing.T) {
		uc, m := newSequencer(1)
		session := activeSession(1)
		session.CurrentRound = domain.RoundManager
		session.Answers = []domain.Answer{{Round: 3, Evaluation: uniformEval(80)}}
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		_, err := uc.ContinueRound(context.Background(), "user-1", "sess-1")
		assert.Error(t, err)
		m.sessions.AssertNotCalled(t, "SetCurrentRound", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPauseAndResume(t *testing.T) {
	t.Run("Pause freezes an active session", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.sessions.On("SetStatus", mock.Anything, "sess-1", domain.SessionStatusPaused).Return(nil)

		require.NoError(t, uc.Pause(context.Background(), "user-1", "sess-1"))
		m.sessions.AssertExpectations(t)
	})

	t.Run("Completed sessions cannot be paused", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusCompleted
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		assert.Error(t, uc.Pause(context.Background(), "user-1", "sess-1"))
	})

	t.Run("Resume re-issues the pending question without duplicating it", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusPaused
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.sessions.On("SetStatus", mock.Anything, "sess-1", domain.SessionStatusActive).Return(nil)

		question, err := uc.Resume(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		require.NotNil(t, question)
		assert.Equal(t, "Q1", question.Text)
		m.question.AssertNotCalled(t, "GenerateQuestion", mock.Anything, mock.Anything)
		m.sessions.AssertNotCalled(t, "AppendQuestion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Resume is idempotent on an already-active session", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		question, err := uc.Resume(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		require.NotNil(t, question)
		assert.Equal(t, "Q1", question.Text)
		m.sessions.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Resume generates a question when none is outstanding", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusPaused
		session.Questions = []domain.Question{{Round: 1, Text: "Q1"}}
		session.Answers = []domain.Answer{{Round: 1, Question: "Q1", Evaluation: uniformEval(70)}}

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.sessions.On("SetStatus", mock.Anything, "sess-1", domain.SessionStatusActive).Return(nil)
		m.question.On("GenerateQuestion", mock.Anything, mock.Anything).Return("Q2", nil)
		m.sessions.On("AppendQuestion", mock.Anything, "sess-1", mock.Anything).Return(nil)

		question, err := uc.Resume(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		require.NotNil(t, question)
		assert.Equal(t, "Q2", question.Text)
	})
}

func TestGreeting(t *testing.T) {
	uc, m := newSequencer(5)
	session := activeSession(5)
	session.CurrentRound = domain.RoundTechnical
	session.Resume = &domain.ResumeProfile{Name: "Jane Doe"}
	m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

	greeting, err := uc.Greeting(context.Background(), "user-1", "sess-1")
	require.NoError(t, err)
	assert.Contains(t, greeting, "Jane")
	assert.Contains(t, greeting, "technical")
}

func TestResults(t *testing.T) {
	t.Run("Completed interview includes overall feedback", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusCompleted
		session.RoundAverages = map[int]int{1: 80, 2: 70, 3: 90}
		finalScore := 80
		session.FinalScore = &finalScore

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.feedback.On("FinalFeedback", mock.Anything, session).Return("strong showing", nil)

		results, err := uc.Results(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "strong showing", results.Feedback)
		require.NotNil(t, results.FinalScore)
		assert.Equal(t, 80, *results.FinalScore)
	})

	t.Run("Feedback gateway failure falls back to a canned summary", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		session.Status = domain.SessionStatusCompleted
		finalScore := 75
		session.FinalScore = &finalScore

		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)
		m.feedback.On("FinalFeedback", mock.Anything, session).Return("", errors.New("provider down"))

		results, err := uc.Results(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		assert.NotEmpty(t, results.Feedback)
	})

	t.Run("In-progress interview has no feedback", func(t *testing.T) {
		uc, m := newSequencer(5)
		session := activeSession(5)
		m.sessions.On("GetByID", mock.Anything, "sess-1").Return(session, nil)

		results, err := uc.Results(context.Background(), "user-1", "sess-1")
		require.NoError(t, err)
		assert.Empty(t, results.Feedback)
		m.feedback.AssertNotCalled(t, "FinalFeedback", mock.Anything, mock.Anything)
	})
}
