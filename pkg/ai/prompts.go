package ai

import "unicode/utf8"

const SentimentSystemPrompt = `You label customer product reviews for a store.
Reply with exactly one lowercase word: positive, neutral or negative.
Do not explain your answer.`

// maxReviewRunes bounds the text sent for classification.
const maxReviewRunes = 2000

func formatReviewPrompt(text string) string {
	if utf8.RuneCountInString(text) > maxReviewRunes {
		text = string([]rune(text)[:maxReviewRunes])
	}
	return "Review:\n" + text
}
