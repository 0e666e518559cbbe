package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"go-interview-backend/internal/domain"
)

// evaluationGateway scores answers with Gemini.
type evaluationGateway struct {
	client *Client
}

func NewEvaluationGateway(client *Client) domain.EvaluationGateway {
	return &evaluationGateway{client: client}
}

func (g *evaluationGateway) EvaluateAnswer(ctx context.Context, question, answer, interviewerRole string) (domain.Evaluation, error) {
	prompt := fmt.Sprintf(`You are an expert %s interviewer evaluating a candidate's response.

Question: %q
Answer: %q

Evaluate the answer on these criteria (0-100 scale):
1. Clarity: how clear and articulate is the response?
2. Relevance: how relevant is the response to the question?
3. Completeness: how complete and thorough is the response?
4. Confidence: how confident does the candidate sound?

Respond with only valid JSON, no additional text:
{"clarity": <0-100>, "relevance": <0-100>, "completeness": <0-100>, "confidence": <0-100>, "feedback": "<brief constructive feedback>"}`,
		interviewerRole, question, answer)

	text, err := g.client.generateText(ctx, prompt, 0.2)
	if err != nil {
		return domain.Evaluation{}, err
	}

	return parseEvaluation(text)
}

// evaluationPayload mirrors the JSON schema the model is instructed to emit.
// Score fields are pointers so a missing key is a parse error rather than a
// silent zero.
type evaluationPayload struct {
	Clarity      *int   `json:"clarity"`
	Relevance    *int   `json:"relevance"`
	Completeness *int   `json:"completeness"`
	Confidence   *int   `json:"confidence"`
	Feedback     string `json:"feedback"`
}

// parseEvaluation performs a strict schema-validating decode of the provider
// reply. Any missing score or malformed JSON is a parse error, which callers
// recover from with the neutral fallback score set.
func parseEvaluation(raw string) (domain.Evaluation, error) {
	var payload evaluationPayload
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &payload); err != nil {
		return domain.Evaluation{}, fmt.Errorf("gemini: evaluation parse error: %w", err)
	}

	if payload.Clarity == nil || payload.Relevance == nil || payload.Completeness == nil || payload.Confidence == nil {
		return domain.Evaluation{}, fmt.Errorf("gemini: evaluation parse error: missing sub-score")
	}

	eval := domain.Evaluation{
		Clarity:      *payload.Clarity,
		Relevance:    *payload.Relevance,
		Completeness: *payload.Completeness,
		Confidence:   *payload.Confidence,
		Feedback:     payload.Feedback,
	}.Clamp()

	if eval.Feedback == "" {
		eval.Feedback = "Good response."
	}

	return eval, nil
}
