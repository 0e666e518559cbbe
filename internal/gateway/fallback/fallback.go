// Package fallback provides deterministic substitutes for every AI gateway
// so an interview keeps moving when the provider is unavailable.
package fallback

import (
	"fmt"
	"regexp"
	"strings"

	"go-interview-backend/internal/domain"
)

// neutralScore is the sub-score used when an evaluation cannot be obtained;
// downstream averaging must never divide by a missing value.
const neutralScore = 70

var hrQuestions = []string{
	"{name}, walk me through your background and what led you to pursue {domain}.",
	"Tell me about yourself and why you're passionate about {domain}.",
	"Give me a quick overview of your journey so far in {domain}.",
	"{name}, what does a great team culture look like to you, and how have you contributed to one?",
	"Where do you see your career in {domain} going over the next few years?",
}

var technicalQuestions = []string{
	"Explain a challenging technical problem you solved in a recent {domain} project.",
	"How do you approach debugging or optimizing performance in {domain} work?",
	"What's a project you've built in {domain} that you're proud of, and why?",
	"How do you decide between competing technical approaches when working in {domain}?",
	"Describe how you keep your {domain} skills current.",
}

var managerQuestions = []string{
	"How do you prioritize tasks when managing multiple stakeholders in {domain}?",
	"Tell me about a time you led a team through a tough deadline.",
	"Describe a difficult decision you had to own, and how you communicated it.",
	"How do you handle disagreement within a team about direction?",
	"What does success look like for a team you lead in {domain}?",
}

// Question returns a canned interview question for the given request. The
// selection is deterministic: it cycles through the role's template list by
// the number of questions already asked, so consecutive fallbacks never
// repeat within a round.
func Question(req domain.QuestionRequest) string {
	list := hrQuestions
	switch req.InterviewerRole {
	case "technical":
		list = technicalQuestions
	case "manager":
		list = managerQuestions
	}

	template := list[len(req.PreviousQuestions)%len(list)]

	name := "there"
	if req.Resume != nil && req.Resume.Name != "" {
		name = strings.Fields(req.Resume.Name)[0]
	}

	return strings.NewReplacer(
		"{name}", name,
		"{domain}", domain.DomainDescription(req.Domain),
	).Replace(template)
}

// Evaluation returns the fixed neutral score set used when the provider
// fails or its reply cannot be parsed.
func Evaluation() domain.Evaluation {
	return domain.Evaluation{
		Clarity:      neutralScore,
		Relevance:    neutralScore,
		Completeness: neutralScore,
		Confidence:   neutralScore,
		Feedback:     "Thanks for your answer. Detailed feedback is unavailable right now; keep your responses structured and backed by concrete examples.",
	}
}

// RoundSuggestions returns canned coaching for a completed round.
func RoundSuggestions(round int, candidateName string) string {
	return fmt.Sprintf(
		"Good work completing the %s round, %s. Keep your answers structured: lead with the outcome, then explain your approach, and close with what you learned. Concrete examples always beat general statements.",
		domain.RoundTitle(round), candidateName)
}

// FinalFeedback returns a canned overall assessment.
func FinalFeedback(session *domain.InterviewSession) string {
	score := 0
	if session.FinalScore != nil {
		score = *session.FinalScore
	}
	return fmt.Sprintf(
		"You completed all three rounds with an overall score of %d/100. Review the per-round feedback, practice the questions that felt hardest, and come back for another attempt to track your progress.",
		score)
}

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?\d[\d ()\-]{6,}\d`)
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
)

// ResumeProfile is the heuristic extractor used when the AI extractor is
// unavailable: contact fields by pattern match, name from the first short
// line, summary from the leading lines.
func ResumeProfile(text string) *domain.ResumeProfile {
	profile := &domain.ResumeProfile{}

	if m := emailPattern.FindString(text); m != "" {
		profile.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		profile.Phone = m
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	if len(lines) > 0 {
		first := lines[0]
		if len(strings.Fields(first)) <= 4 && letterPattern.MatchString(first) {
			profile.Name = first
		}
	}

	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	profile.Summary = strings.Join(lines[:limit], " ")

	return profile
}
