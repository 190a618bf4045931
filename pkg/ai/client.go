package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"

	"github.com/aranyat/reviews-api/pkg/config"
)

// Client wraps an Azure OpenAI deployment.
type Client struct {
	client     openai.Client
	deployment string
}

// NewClient returns nil when the endpoint or key is missing.
func NewClient(cfg *config.AIConfig) *Client {
	if !cfg.AIEnabled() {
		log.Info().Msg("AI service disabled - Azure OpenAI credentials not provided")
		return nil
	}

	deployment := cfg.Deployment
	if deployment == "" {
		deployment = "gpt-35-turbo" // Default deployment name
	}

	log.Info().Str("deployment", deployment).Msg("AI service initialized with Azure OpenAI")
	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(cfg.Endpoint),
			option.WithAPIKey(cfg.APIKey),
		),
		deployment: deployment,
	}
}

// generateCompletion is a helper function to generate AI completions
func (c *Client) generateCompletion(ctx context.Context, systemMessage, userMessage string, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(0),
	})

	if err != nil {
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
