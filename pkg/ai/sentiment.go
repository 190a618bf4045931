package ai

import (
	"context"
	"strings"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Classify returns the sentiment label for a review body.
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	if c == nil {
		return "", &AIError{Message: "AI service is not enabled"}
	}
	answer, err := c.generateCompletion(ctx, SentimentSystemPrompt, formatReviewPrompt(text), 3)
	if err != nil {
		return "", err
	}
	label, ok := normalizeLabel(answer)
	if !ok {
		return "", &AIError{Message: "AI returned unknown sentiment label " + answer}
	}
	return label, nil
}

// normalizeLabel maps a model answer such as " Positive." to a known label.
func normalizeLabel(answer string) (string, bool) {
	word := strings.ToLower(strings.TrimSpace(answer))
	word = strings.Trim(word, ".!\"' \n")
	if fields := strings.Fields(word); len(fields) > 0 {
		word = fields[0]
	}
	switch word {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return word, true
	}
	return "", false
}
