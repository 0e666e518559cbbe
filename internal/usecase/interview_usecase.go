package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/gateway/fallback"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/logger"
)

type interviewUsecase struct {
	sessionRepo       domain.SessionRepository
	userRepo          domain.UserRepository
	questionGW        domain.QuestionGateway
	evaluationGW      domain.EvaluationGateway
	feedbackGW        domain.FeedbackGateway
	emailService      *email.EmailService
	questionsPerRound int
}

// NewInterviewUsecase creates the Round Sequencer. emailService may be nil
// when notifications are not configured.
func NewInterviewUsecase(
	sessionRepo domain.SessionRepository,
	userRepo domain.UserRepository,
	questionGW domain.QuestionGateway,
	evaluationGW domain.EvaluationGateway,
	feedbackGW domain.FeedbackGateway,
	emailService *email.EmailService,
	questionsPerRound int,
) domain.InterviewUsecase {
	if questionsPerRound <= 0 {
		questionsPerRound = domain.DefaultQuestionsPerRound
	}
	return &interviewUsecase{
		sessionRepo:       sessionRepo,
		userRepo:          userRepo,
		questionGW:        questionGW,
		evaluationGW:      evaluationGW,
		feedbackGW:        feedbackGW,
		emailService:      emailService,
		questionsPerRound: questionsPerRound,
	}
}

// CreateSession opens a new interview attempt and asks the opening question
// of round 1.
func (uc *interviewUsecase) CreateSession(ctx context.Context, userID string, in domain.CreateSessionInput) (*domain.InterviewSession, error) {
	if in.Role == "" {
		return nil, apperror.BadRequest("Role is required")
	}
	if in.ExperienceLevel == "" {
		in.ExperienceLevel = "mid"
	}

	session := &domain.InterviewSession{
		UserID:            userID,
		Role:              in.Role,
		ExperienceLevel:   in.ExperienceLevel,
		Domain:            in.Domain,
		Resume:            in.Resume,
		QuestionsPerRound: uc.questionsPerRound,
		CurrentRound:      domain.RoundHR,
		Status:            domain.SessionStatusActive,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperror.Internal(err)
	}

	question, err := uc.nextQuestion(ctx, session)
	if err != nil {
		return nil, err
	}
	session.Questions = append(session.Questions, *question)

	return session, nil
}

// GetSession returns the session view, enforcing ownership.
func (uc *interviewUsecase) GetSession(ctx context.Context, userID, sessionID string) (*domain.InterviewSession, error) {
	return uc.ownedSession(ctx, userID, sessionID)
}

// Greeting returns the deterministic interviewer greeting for the session's
// current round.
func (uc *interviewUsecase) Greeting(ctx context.Context, userID, sessionID string) (string, error) {
	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	return greetingFor(session.CurrentRound, session.CandidateFirstName()), nil
}

// SubmitAnswer is the heart of the sequencer: evaluate the answer, append it,
// then either ask the next question, close the round, or complete the
// interview.
func (uc *interviewUsecase) SubmitAnswer(ctx context.Context, userID, sessionID, answerText string) (*domain.AnswerResult, error) {
	if strings.TrimSpace(answerText) == "" {
		return nil, apperror.BadRequest("Answer text is required")
	}

	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, apperror.BadRequest("Session is not active")
	}

	round := session.CurrentRound

	// A full round means the previous answer already closed it; re-emit the
	// round-complete signal instead of taking a sixth answer.
	if session.RoundComplete(round) {
		return uc.roundCompleteResult(ctx, session, round, nil)
	}

	pending := session.PendingQuestion()
	if pending == nil {
		// Every asked question already has its answer but the round still has
		// room: the follow-up question was never issued (the provider can run
		// out of quota right after an answer is recorded). Issue it now and
		// echo the stored evaluation so a retried submit heals the session.
		answers := session.RoundAnswers(round)
		if len(answers) == 0 {
			return nil, apperror.BadRequest("No question is awaiting an answer")
		}
		last := answers[len(answers)-1]

		question, err := uc.nextQuestion(ctx, session)
		if err != nil {
			return nil, err
		}
		session.Questions = append(session.Questions, *question)

		return &domain.AnswerResult{
			Evaluation:        last.Evaluation,
			Score:             last.Evaluation.Score(),
			AnsweredInRound:   len(answers),
			QuestionsPerRound: session.QuestionsPerRound,
			NextQuestion:      question,
		}, nil
	}

	evaluation, err := uc.evaluate(ctx, pending.Text, answerText, domain.RoundRole(round))
	if err != nil {
		return nil, err // quota errors are the only ones that escape
	}

	answer := domain.Answer{
		Round:       round,
		Question:    pending.Text,
		Text:        answerText,
		Evaluation:  evaluation,
		SubmittedAt: time.Now(),
	}
	if err := uc.sessionRepo.AppendAnswer(ctx, session.ID, answer); err != nil {
		// Best-effort persistence: the caller still gets the computed result.
		logger.Log.Error("Failed to persist answer", "session_id", session.ID, "error", err)
	}
	session.Answers = append(session.Answers, answer)

	result := &domain.AnswerResult{
		Evaluation:        evaluation,
		Score:             evaluation.Score(),
		AnsweredInRound:   session.AnswersInRound(round),
		QuestionsPerRound: session.QuestionsPerRound,
	}

	if !session.RoundComplete(round) {
		question, err := uc.nextQuestion(ctx, session)
		if err != nil {
			return nil, err
		}
		session.Questions = append(session.Questions, *question)
		result.NextQuestion = question
		return result, nil
	}

	return uc.roundCompleteResult(ctx, session, round, result)
}

// roundCompleteResult seals a completed round: record its average once, then
// either wait for the continue command or finish the whole interview.
func (uc *interviewUsecase) roundCompleteResult(ctx context.Context, session *domain.InterviewSession, round int, result *domain.AnswerResult) (*domain.AnswerResult, error) {
	if result == nil {
		result = &domain.AnswerResult{
			AnsweredInRound:   session.AnswersInRound(round),
			QuestionsPerRound: session.QuestionsPerRound,
		}
	}
	result.RoundComplete = true

	average, ok := session.RoundAverages[round]
	if !ok {
		average = domain.RoundAverageOf(session.RoundAnswers(round))
		if err := uc.sessionRepo.SetRoundAverage(ctx, session.ID, round, average); err != nil {
			logger.Log.Error("Failed to persist round average", "session_id", session.ID, "round", round, "error", err)
		}
		if session.RoundAverages == nil {
			session.RoundAverages = make(map[int]int)
		}
		session.RoundAverages[round] = average
	}
	result.RoundAverage = &average
	result.Suggestions = uc.roundSuggestions(ctx, session, round)

	if round < domain.FinalRound {
		return result, nil
	}

	// Final round done: compute the overall score exactly once.
	if session.FinalScore == nil {
		finalScore := domain.FinalScoreOf(session.RoundAverages)
		if err := uc.sessionRepo.SetFinalScore(ctx, session.ID, finalScore); err != nil {
			logger.Log.Error("Failed to persist final score", "session_id", session.ID, "error", err)
		}
		if err := uc.sessionRepo.SetStatus(ctx, session.ID, domain.SessionStatusCompleted); err != nil {
			logger.Log.Error("Failed to complete session", "session_id", session.ID, "error", err)
		}
		session.FinalScore = &finalScore
		session.Status = domain.SessionStatusCompleted

		if err := uc.userRepo.ApplyInterviewResult(ctx, session.UserID, finalScore); err != nil {
			logger.Log.Error("Failed to update user stats", "user_id", session.UserID, "error", err)
		}
		uc.notifyCompletion(session)
	}

	result.InterviewComplete = true
	result.FinalScore = session.FinalScore
	return result, nil
}

// ContinueRound advances a session whose current round is complete into
// the next round and asks its opening question.
func (uc *interviewUsecase) ContinueRound(ctx context.Context, userID, sessionID string) (*domain.Question, error) {
	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, apperror.BadRequest("Session is not active")
	}
	if !session.RoundComplete(session.CurrentRound) {
		return nil, apperror.BadRequest("Current round is not complete yet")
	}
	if session.CurrentRound >= domain.FinalRound {
		return nil, apperror.BadRequest("Interview already reached its final round")
	}

	nextRound := session.CurrentRound + 1
	if err := uc.sessionRepo.SetCurrentRound(ctx, session.ID, nextRound); err != nil {
		return nil, apperror.Internal(err)
	}
	session.CurrentRound = nextRound

	question, err := uc.nextQuestion(ctx, session)
	if err != nil {
		return nil, err
	}
	session.Questions = append(session.Questions, *question)
	return question, nil
}

// Pause freezes a session, preserving round and question progress.
func (uc *interviewUsecase) Pause(ctx context.Context, userID, sessionID string) error {
	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.Status == domain.SessionStatusCompleted {
		return apperror.BadRequest("Completed sessions cannot be paused")
	}
	if session.Status == domain.SessionStatusPaused {
		return nil
	}
	if err := uc.sessionRepo.SetStatus(ctx, session.ID, domain.SessionStatusPaused); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Resume reactivates a session and re-issues the question the candidate left
// on. Idempotent: an outstanding question is returned as-is, never appended
// a second time.
func (uc *interviewUsecase) Resume(ctx context.Context, userID, sessionID string) (*domain.Question, error) {
	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionStatusCompleted {
		return nil, apperror.BadRequest("Completed sessions cannot be resumed")
	}

	if session.Status == domain.SessionStatusPaused {
		if err := uc.sessionRepo.SetStatus(ctx, session.ID, domain.SessionStatusActive); err != nil {
			return nil, apperror.Internal(err)
		}
		session.Status = domain.SessionStatusActive
	}

	if pending := session.PendingQuestion(); pending != nil {
		return pending, nil
	}

	// Between rounds (or mid-round with no question outstanding): nothing to
	// re-issue unless the round still has room.
	if session.RoundComplete(session.CurrentRound) {
		return nil, nil
	}

	question, err := uc.nextQuestion(ctx, session)
	if err != nil {
		return nil, err
	}
	session.Questions = append(session.Questions, *question)
	return question, nil
}

// Results assembles the summary view with overall feedback once completed.
func (uc *interviewUsecase) Results(ctx context.Context, userID, sessionID string) (*domain.InterviewResults, error) {
	session, err := uc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	results := &domain.InterviewResults{
		SessionID:     session.ID,
		Role:          session.Role,
		Domain:        session.Domain,
		Status:        session.Status,
		RoundAverages: session.RoundAverages,
		FinalScore:    session.FinalScore,
	}

	if session.Status == domain.SessionStatusCompleted {
		feedback, err := uc.feedbackGW.FinalFeedback(ctx, session)
		if err != nil {
			if qe, ok := domain.AsQuotaExceeded(err); ok {
				return nil, apperror.QuotaExceeded(quotaMessage(qe), qe.RetryAfter)
			}
			feedback = fallback.FinalFeedback(session)
		}
		results.Feedback = feedback
	}

	return results, nil
}

// nextQuestion asks the question gateway for the session's next question,
// substituting a deterministic fallback on any non-quota failure, and
// appends it to the session log.
func (uc *interviewUsecase) nextQuestion(ctx context.Context, session *domain.InterviewSession) (*domain.Question, error) {
	req := domain.QuestionRequest{
		InterviewerRole:   domain.RoundRole(session.CurrentRound),
		JobRole:           session.Role,
		ExperienceLevel:   session.ExperienceLevel,
		Domain:            session.Domain,
		Round:             session.CurrentRound,
		PreviousQuestions: session.PreviousQuestionTexts(),
		Resume:            session.Resume,
	}

	text, err := uc.questionGW.GenerateQuestion(ctx, req)
	if err != nil {
		if qe, ok := domain.AsQuotaExceeded(err); ok {
			return nil, apperror.QuotaExceeded(quotaMessage(qe), qe.RetryAfter)
		}
		logger.Log.Warn("Question gateway failed, using fallback", "session_id", session.ID, "error", err)
		text = fallback.Question(req)
	}
	if session.HasQuestion(text) {
		text = fallback.Question(req)
	}

	question := domain.Question{
		Round:   session.CurrentRound,
		Text:    text,
		AskedAt: time.Now(),
	}
	if err := uc.sessionRepo.AppendQuestion(ctx, session.ID, question); err != nil {
		logger.Log.Error("Failed to persist question", "session_id", session.ID, "error", err)
	}
	return &question, nil
}

// evaluate scores an answer, substituting the neutral fallback on any
// non-quota failure.
func (uc *interviewUsecase) evaluate(ctx context.Context, question, answer, interviewerRole string) (domain.Evaluation, error) {
	evaluation, err := uc.evaluationGW.EvaluateAnswer(ctx, question, answer, interviewerRole)
	if err != nil {
		if qe, ok := domain.AsQuotaExceeded(err); ok {
			return domain.Evaluation{}, apperror.QuotaExceeded(quotaMessage(qe), qe.RetryAfter)
		}
		logger.Log.Warn("Evaluation gateway failed, using fallback", "error", err)
		return fallback.Evaluation(), nil
	}
	return evaluation.Clamp(), nil
}

func (uc *interviewUsecase) roundSuggestions(ctx context.Context, session *domain.InterviewSession, round int) string {
	suggestions, err := uc.feedbackGW.RoundSuggestions(ctx, round, session.CandidateFirstName(), session.RoundAnswers(round))
	if err != nil {
		return fallback.RoundSuggestions(round, session.CandidateFirstName())
	}
	return suggestions
}

func (uc *interviewUsecase) notifyCompletion(session *domain.InterviewSession) {
	if uc.emailService == nil || !uc.emailService.IsConfigured() || session.FinalScore == nil {
		return
	}
	user, err := uc.userRepo.GetByID(context.Background(), session.UserID)
	if err != nil {
		return
	}
	score := *session.FinalScore
	go func() {
		if err := uc.emailService.SendInterviewCompleteEmail(user.Email, user.FullName, score); err != nil {
			logger.Log.Warn("Failed to send completion email", "user_id", user.ID, "error", err)
		}
	}()
}

// ownedSession loads a session and enforces that it belongs to the caller.
// A foreign session is reported as not found rather than forbidden so ids
// cannot be enumerated.
func (uc *interviewUsecase) ownedSession(ctx context.Context, userID, sessionID string) (*domain.InterviewSession, error) {
	if sessionID == "" {
		return nil, apperror.BadRequest("Session ID is required")
	}
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Session not found")
		}
		return nil, apperror.Internal(err)
	}
	if session.UserID != userID {
		return nil, apperror.NotFound("Session not found")
	}
	return session, nil
}

func quotaMessage(qe *domain.QuotaExceededError) string {
	return fmt.Sprintf("AI provider quota exceeded. Please try again in %d seconds.", qe.RetryAfter)
}

var greeters = map[int]string{
	domain.RoundHR:        "Hello %s, I'm Priya from HR. In this round we'll focus on your background, communication and workplace behaviour. Let's begin.",
	domain.RoundTechnical: "Hi %s, I'm Daniel, the domain expert for this role. I'll be evaluating your technical approach and problem solving. Ready?",
	domain.RoundManager:   "Good to meet you %s, I'm Sofia, the hiring manager. This round focuses on leadership, ownership and decision making.",
}

func greetingFor(round int, firstName string) string {
	template, ok := greeters[round]
	if !ok {
		template = greeters[domain.RoundHR]
	}
	return fmt.Sprintf(template, firstName)
}
