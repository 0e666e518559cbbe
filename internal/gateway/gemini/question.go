package gemini

import (
	"context"
	"fmt"
	"strings"

	"go-interview-backend/internal/domain"
)

// questionGateway generates interview questions with Gemini.
type questionGateway struct {
	client *Client
}

func NewQuestionGateway(client *Client) domain.QuestionGateway {
	return &questionGateway{client: client}
}

func (g *questionGateway) GenerateQuestion(ctx context.Context, req domain.QuestionRequest) (string, error) {
	prompt := buildQuestionPrompt(req)

	text, err := g.client.generateText(ctx, prompt, 0.7)
	if err != nil {
		return "", err
	}

	question := sanitizeQuestion(text)
	if len(question) < 15 {
		return "", fmt.Errorf("gemini: question too short: %q", question)
	}

	// The contract forbids repeating an earlier question. A repeat is treated
	// as a provider failure so the sequencer substitutes a fallback.
	for _, prev := range req.PreviousQuestions {
		if strings.EqualFold(strings.TrimSpace(prev), question) {
			return "", fmt.Errorf("gemini: repeated question")
		}
	}

	return question, nil
}

func buildQuestionPrompt(req domain.QuestionRequest) string {
	domainDesc := domain.DomainDescription(req.Domain)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s interviewer conducting round %d of a 3-round job interview.\n\n",
		strings.ToUpper(req.InterviewerRole), req.Round)

	fmt.Fprintf(&b, "Candidate profile:\n- Target role: %s\n- Domain: %s\n- Experience level: %s\n",
		req.JobRole, domainDesc, req.ExperienceLevel)

	if req.Resume != nil {
		b.WriteString(resumeContext(req.InterviewerRole, req.Resume))
	}

	if len(req.PreviousQuestions) > 0 {
		fmt.Fprintf(&b, "\nAvoid repeating these topics: %s\n", strings.Join(req.PreviousQuestions, ", "))
	}

	if req.InterviewerRole == "hr" && req.Round == domain.RoundHR && len(req.PreviousQuestions) == 0 {
		b.WriteString("\nThis is the very first question. It must be a 'tell me about yourself' opener tailored to the candidate's domain and experience.\n")
	}

	b.WriteString(`
Generate ONE clear, professional, open-ended interview question.
Rules:
- Make it relevant to the candidate's domain
- Use simple English
- No bullet points, no numbering, no markdown
- Output the question only, nothing else`)

	return b.String()
}

func resumeContext(interviewerRole string, r *domain.ResumeProfile) string {
	var b strings.Builder
	b.WriteString("\nFrom the resume:\n")
	if len(r.Skills) > 0 {
		limit := len(r.Skills)
		if limit > 8 {
			limit = 8
		}
		fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(r.Skills[:limit], ", "))
	}
	if interviewerRole == "technical" && len(r.Projects) > 0 {
		names := make([]string, 0, len(r.Projects))
		for _, p := range r.Projects {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "- Projects: %s\n", strings.Join(names, ", "))
	}
	if len(r.Experience) > 0 {
		roles := make([]string, 0, len(r.Experience))
		for _, e := range r.Experience {
			roles = append(roles, fmt.Sprintf("%s at %s", e.Position, e.Company))
		}
		fmt.Fprintf(&b, "- Experience: %s\n", strings.Join(roles, " -> "))
	}
	if interviewerRole == "hr" && r.Summary != "" {
		fmt.Fprintf(&b, "- Summary: %s\n", r.Summary)
	}
	return b.String()
}

// sanitizeQuestion strips markdown noise and "Question:" prefixes the model
// occasionally emits.
func sanitizeQuestion(text string) string {
	question := strings.NewReplacer("*", "", "#", "", "_", "", "`", "").Replace(text)
	question = strings.TrimSpace(question)
	if len(question) >= 9 && strings.EqualFold(question[:9], "question:") {
		question = strings.TrimSpace(question[9:])
	}
	return question
}
