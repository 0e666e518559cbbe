package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"go-interview-backend/internal/domain"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned when the service runs without a Gemini API
// key. Callers treat it like any other provider failure and fall back.
var ErrNotConfigured = errors.New("gemini: client not configured")

const defaultRetryAfterSeconds = 60

// Client wraps the genai SDK with model selection and quota-error mapping.
type Client struct {
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &Client{genai: gc, model: model}, nil
}

// generateText runs one prompt and returns the trimmed text reply.
// A 429 from the provider is mapped to domain.QuotaExceededError.
func (c *Client) generateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c == nil || c.genai == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", mapProviderError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

func mapProviderError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &domain.QuotaExceededError{RetryAfter: retryAfterFromMessage(apiErr.Message)}
	}
	return fmt.Errorf("gemini: generate failed: %w", err)
}

var retryDelayPattern = regexp.MustCompile(`(\d+)(?:\.\d+)?s`)

// retryAfterFromMessage pulls the retry delay the provider embeds in its
// rate-limit message, defaulting to 60s when absent.
func retryAfterFromMessage(msg string) int {
	m := retryDelayPattern.FindStringSubmatch(msg)
	if len(m) < 2 {
		return defaultRetryAfterSeconds
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil || secs <= 0 {
		return defaultRetryAfterSeconds
	}
	return secs
}

// cleanJSON strips markdown code fences the model sometimes wraps around a
// JSON reply.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
