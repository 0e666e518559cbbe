package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"go-interview-backend/internal/domain"
)

// resumeExtractor summarizes raw resume text into a typed profile.
type resumeExtractor struct {
	client *Client
}

func NewResumeExtractor(client *Client) domain.ResumeExtractor {
	return &resumeExtractor{client: client}
}

func (g *resumeExtractor) ExtractProfile(ctx context.Context, text string) (*domain.ResumeProfile, error) {
	prompt := fmt.Sprintf(`Extract structured data from this resume text.

Resume:
%s

Return your result as a single JSON object in this exact shape:
{
  "name": string,
  "email": string,
  "phone": string,
  "summary": string,
  "skills": [string],
  "experience": [{"company": string, "position": string, "duration": string}],
  "education": [{"school": string, "degree": string, "field": string, "year": string}],
  "projects": [{"name": string, "description": string, "technologies": [string]}],
  "certifications": [string]
}

Base everything only on the provided text; use empty strings or empty arrays
for anything not present. Return only valid JSON, no markdown, no explanations.`, text)

	raw, err := g.client.generateText(ctx, prompt, 0.1)
	if err != nil {
		return nil, err
	}

	var profile domain.ResumeProfile
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &profile); err != nil {
		return nil, fmt.Errorf("gemini: resume parse error: %w", err)
	}

	return &profile, nil
}
