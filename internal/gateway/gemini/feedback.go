package gemini

import (
	"context"
	"fmt"
	"strings"

	"go-interview-backend/internal/domain"
)

// feedbackGateway produces round suggestions and the final interview summary.
type feedbackGateway struct {
	client *Client
}

func NewFeedbackGateway(client *Client) domain.FeedbackGateway {
	return &feedbackGateway{client: client}
}

func (g *feedbackGateway) RoundSuggestions(ctx context.Context, round int, candidateName string, answers []domain.Answer) (string, error) {
	var conversation strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&conversation, "Q: %s\nA: %s\n\n", a.Question, a.Text)
	}

	prompt := fmt.Sprintf(`You are a %s interviewer providing overall feedback after the %s round of an interview.

CONVERSATION:
%s
Provide 2-3 key suggestions for %s based on their performance in this round:
1. What they did well (with specific examples)
2. What to improve
Keep it short, encouraging and concrete. Plain text only, no markdown.`,
		domain.RoundRole(round), domain.RoundTitle(round), conversation.String(), candidateName)

	return g.client.generateText(ctx, prompt, 0.5)
}

func (g *feedbackGateway) FinalFeedback(ctx context.Context, session *domain.InterviewSession) (string, error) {
	var rounds strings.Builder
	for round := domain.RoundHR; round <= domain.FinalRound; round++ {
		if avg, ok := session.RoundAverages[round]; ok {
			fmt.Fprintf(&rounds, "- %s round: %d/100\n", domain.RoundTitle(round), avg)
		}
	}

	prompt := fmt.Sprintf(`A candidate for a %s position (%s, %s level) just finished a 3-round mock interview.

Round scores:
%s
Write a short overall assessment (3-4 sentences): their main strength, their main area to improve, and one actionable next step. Plain text only, address the candidate directly.`,
		session.Role, domain.DomainDescription(session.Domain), session.ExperienceLevel, rounds.String())

	return g.client.generateText(ctx, prompt, 0.5)
}
