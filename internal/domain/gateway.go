package domain

import (
	"context"
	"math"
)

// Evaluation holds the four 0-100 sub-scores and feedback for one answer.
type Evaluation struct {
	Clarity      int    `json:"clarity"`
	Relevance    int    `json:"relevance"`
	Completeness int    `json:"completeness"`
	Confidence   int    `json:"confidence"`
	Feedback     string `json:"feedback"`
}

// Score is the per-answer score: the mean of the four sub-scores, rounded to
// the nearest integer.
func (e Evaluation) Score() int {
	return int(math.Round(float64(e.Clarity+e.Relevance+e.Completeness+e.Confidence) / 4))
}

// Clamp forces every sub-score into [0,100].
func (e Evaluation) Clamp() Evaluation {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	e.Clarity = clamp(e.Clarity)
	e.Relevance = clamp(e.Relevance)
	e.Completeness = clamp(e.Completeness)
	e.Confidence = clamp(e.Confidence)
	return e
}

// QuestionRequest carries the context the question gateway needs to produce
// one interview question.
type QuestionRequest struct {
	InterviewerRole   string // hr | technical | manager
	JobRole           string
	ExperienceLevel   string
	Domain            string
	Round             int
	PreviousQuestions []string
	Resume            *ResumeProfile
}

// QuestionGateway produces one non-empty interview question. It must not
// repeat any text in PreviousQuestions.
type QuestionGateway interface {
	GenerateQuestion(ctx context.Context, req QuestionRequest) (string, error)
}

// EvaluationGateway scores a question/answer pair.
type EvaluationGateway interface {
	EvaluateAnswer(ctx context.Context, question, answer, interviewerRole string) (Evaluation, error)
}

// FeedbackGateway produces free-text coaching: per-round suggestions after a
// round completes and an overall summary after the interview completes.
type FeedbackGateway interface {
	RoundSuggestions(ctx context.Context, round int, candidateName string, answers []Answer) (string, error)
	FinalFeedback(ctx context.Context, session *InterviewSession) (string, error)
}

// ResumeExtractor turns raw resume text into a structured profile.
type ResumeExtractor interface {
	ExtractProfile(ctx context.Context, text string) (*ResumeProfile, error)
}
