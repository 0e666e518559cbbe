package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation(t *testing.T) {
	t.Run("Plain JSON", func(t *testing.T) {
		eval, err := parseEvaluation(`{"clarity": 80, "relevance": 75, "completeness": 90, "confidence": 60, "feedback": "Solid answer."}`)
		require.NoError(t, err)
		assert.Equal(t, 80, eval.Clarity)
		assert.Equal(t, 75, eval.Relevance)
		assert.Equal(t, 90, eval.Completeness)
		assert.Equal(t, 60, eval.Confidence)
		assert.Equal(t, "Solid answer.", eval.Feedback)
	})

	t.Run("Markdown-fenced JSON", func(t *testing.T) {
		raw := "```json\n{\"clarity\": 70, \"relevance\": 70, \"completeness\": 70, \"confidence\": 70, \"feedback\": \"ok\"}\n```"
		eval, err := parseEvaluation(raw)
		require.NoError(t, err)
		assert.Equal(t, 70, eval.Clarity)
	})

	t.Run("Missing sub-score is a parse error", func(t *testing.T) {
		_, err := parseEvaluation(`{"clarity": 80, "relevance": 75, "completeness": 90, "feedback": "no confidence"}`)
		assert.Error(t, err)
	})

	t.Run("Malformed JSON is a parse error", func(t *testing.T) {
		_, err := parseEvaluation(`The candidate did well overall.`)
		assert.Error(t, err)
	})

	t.Run("Out-of-range scores are clamped", func(t *testing.T) {
		eval, err := parseEvaluation(`{"clarity": 150, "relevance": -10, "completeness": 50, "confidence": 100, "feedback": ""}`)
		require.NoError(t, err)
		assert.Equal(t, 100, eval.Clarity)
		assert.Equal(t, 0, eval.Relevance)
	})

	t.Run("Empty feedback gets a default", func(t *testing.T) {
		eval, err := parseEvaluation(`{"clarity": 80, "relevance": 80, "completeness": 80, "confidence": 80, "feedback": ""}`)
		require.NoError(t, err)
		assert.NotEmpty(t, eval.Feedback)
	})
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON(`{"a":1}`))
}

func TestRetryAfterFromMessage(t *testing.T) {
	assert.Equal(t, 42, retryAfterFromMessage("Please retry in 42.5s."))
	assert.Equal(t, 60, retryAfterFromMessage("quota exceeded"))
}
