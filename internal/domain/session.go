package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// Interview rounds. Each round is conducted by a different interviewer persona.
const (
	RoundHR        = 1
	RoundTechnical = 2
	RoundManager   = 3
	FinalRound     = RoundManager
)

// Session status constants
const (
	SessionStatusActive    = "active"
	SessionStatusPaused    = "paused"
	SessionStatusCompleted = "completed"
)

// DefaultQuestionsPerRound is used when a session is created without an
// explicit configuration.
const DefaultQuestionsPerRound = 5

// RoundRole maps a round number to the interviewer role conducting it.
func RoundRole(round int) string {
	switch round {
	case RoundTechnical:
		return "technical"
	case RoundManager:
		return "manager"
	default:
		return "hr"
	}
}

// RoundTitle is the human-readable name of a round.
func RoundTitle(round int) string {
	switch round {
	case RoundTechnical:
		return "Technical"
	case RoundManager:
		return "Manager"
	default:
		return "HR"
	}
}

// Question is one entry in a session's append-only question log.
type Question struct {
	Round   int       `json:"round"`
	Text    string    `json:"text"`
	AskedAt time.Time `json:"asked_at"`
}

// Answer is one entry in a session's append-only answer log, together with
// its evaluation.
type Answer struct {
	Round       int        `json:"round"`
	Question    string     `json:"question"`
	Text        string     `json:"text"`
	Evaluation  Evaluation `json:"evaluation"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// InterviewSession is one complete interview attempt by one candidate.
type InterviewSession struct {
	ID                string         `json:"id"`
	UserID            string         `json:"-"`
	Role              string         `json:"role"`
	ExperienceLevel   string         `json:"experience_level"`
	Domain            string         `json:"domain"`
	Resume            *ResumeProfile `json:"resume,omitempty"`
	QuestionsPerRound int            `json:"questions_per_round"`
	CurrentRound      int            `json:"current_round"`
	Questions         []Question     `json:"questions"`
	Answers           []Answer       `json:"answers"`
	RoundAverages     map[int]int    `json:"round_averages"`
	Status            string         `json:"status"`
	FinalScore        *int           `json:"final_score,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// QuestionsInRound counts questions asked in the given round.
func (s *InterviewSession) QuestionsInRound(round int) int {
	n := 0
	for _, q := range s.Questions {
		if q.Round == round {
			n++
		}
	}
	return n
}

// AnswersInRound counts answers submitted in the given round.
func (s *InterviewSession) AnswersInRound(round int) int {
	n := 0
	for _, a := range s.Answers {
		if a.Round == round {
			n++
		}
	}
	return n
}

// RoundAnswers returns the answers of the given round in submission order.
func (s *InterviewSession) RoundAnswers(round int) []Answer {
	var out []Answer
	for _, a := range s.Answers {
		if a.Round == round {
			out = append(out, a)
		}
	}
	return out
}

// PendingQuestion returns the question of the current round the candidate has
// been asked but not yet answered, or nil when none is outstanding.
func (s *InterviewSession) PendingQuestion() *Question {
	if s.QuestionsInRound(s.CurrentRound) <= s.AnswersInRound(s.CurrentRound) {
		return nil
	}
	for i := len(s.Questions) - 1; i >= 0; i-- {
		if s.Questions[i].Round == s.CurrentRound {
			q := s.Questions[i]
			return &q
		}
	}
	return nil
}

// RoundComplete reports whether the given round has its full answer set.
func (s *InterviewSession) RoundComplete(round int) bool {
	return s.AnswersInRound(round) >= s.QuestionsPerRound
}

// PreviousQuestionTexts returns every question text asked so far, used to
// keep the question gateway from repeating itself.
func (s *InterviewSession) PreviousQuestionTexts() []string {
	texts := make([]string, 0, len(s.Questions))
	for _, q := range s.Questions {
		texts = append(texts, q.Text)
	}
	return texts
}

// HasQuestion reports whether text matches an already-asked question.
func (s *InterviewSession) HasQuestion(text string) bool {
	for _, q := range s.Questions {
		if strings.EqualFold(strings.TrimSpace(q.Text), strings.TrimSpace(text)) {
			return true
		}
	}
	return false
}

// CandidateFirstName returns the candidate's first name from the resume
// profile, or a friendly placeholder.
func (s *InterviewSession) CandidateFirstName() string {
	if s.Resume != nil && s.Resume.Name != "" {
		return strings.Fields(s.Resume.Name)[0]
	}
	return "there"
}

// RoundAverageOf computes a round's average: the mean of the per-answer
// scores, rounded to the nearest integer. Each per-answer score is itself the
// rounded mean of the four sub-scores.
func RoundAverageOf(answers []Answer) int {
	if len(answers) == 0 {
		return 0
	}
	sum := 0
	for _, a := range answers {
		sum += a.Evaluation.Score()
	}
	return int(math.Round(float64(sum) / float64(len(answers))))
}

// FinalScoreOf computes the overall interview score as the rounded mean of
// all round averages.
func FinalScoreOf(averages map[int]int) int {
	if len(averages) == 0 {
		return 0
	}
	sum := 0
	for _, v := range averages {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(averages))))
}

// SessionRepository defines persistence for interview sessions. All writes
// are keyed by session id; appends preserve order.
type SessionRepository interface {
	Create(ctx context.Context, session *InterviewSession) error
	GetByID(ctx context.Context, id string) (*InterviewSession, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]InterviewSession, error)
	AppendQuestion(ctx context.Context, id string, q Question) error
	AppendAnswer(ctx context.Context, id string, a Answer) error
	SetRoundAverage(ctx context.Context, id string, round, value int) error
	SetCurrentRound(ctx context.Context, id string, round int) error
	SetStatus(ctx context.Context, id string, status string) error
	SetFinalScore(ctx context.Context, id string, score int) error
}

// CreateSessionInput carries the setup fields chosen by the candidate.
type CreateSessionInput struct {
	Role            string
	ExperienceLevel string
	Domain          string
	Resume          *ResumeProfile
}

// AnswerResult is what the sequencer returns after an answer is processed.
type AnswerResult struct {
	Evaluation        Evaluation `json:"evaluation"`
	Score             int        `json:"score"`
	AnsweredInRound   int        `json:"answered_in_round"`
	QuestionsPerRound int        `json:"questions_per_round"`
	RoundComplete     bool       `json:"round_complete"`
	RoundAverage      *int       `json:"round_average,omitempty"`
	Suggestions       string     `json:"suggestions,omitempty"`
	NextQuestion      *Question  `json:"next_question,omitempty"`
	InterviewComplete bool       `json:"interview_complete"`
	FinalScore        *int       `json:"final_score,omitempty"`
}

// InterviewResults is the summary view served after completion.
type InterviewResults struct {
	SessionID     string      `json:"session_id"`
	Role          string      `json:"role"`
	Domain        string      `json:"domain"`
	Status        string      `json:"status"`
	RoundAverages map[int]int `json:"round_averages"`
	FinalScore    *int        `json:"final_score,omitempty"`
	Feedback      string      `json:"feedback,omitempty"`
}

// InterviewUsecase is the Round Sequencer: the single authority over session
// state transitions.
type InterviewUsecase interface {
	CreateSession(ctx context.Context, userID string, in CreateSessionInput) (*InterviewSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*InterviewSession, error)
	Greeting(ctx context.Context, userID, sessionID string) (string, error)
	SubmitAnswer(ctx context.Context, userID, sessionID, answerText string) (*AnswerResult, error)
	ContinueRound(ctx context.Context, userID, sessionID string) (*Question, error)
	Pause(ctx context.Context, userID, sessionID string) error
	Resume(ctx context.Context, userID, sessionID string) (*Question, error)
	Results(ctx context.Context, userID, sessionID string) (*InterviewResults, error)
}
