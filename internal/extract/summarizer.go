package extract

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Summarizer produces a brief natural-language summary of a serialized
// bill record.
type Summarizer interface {
	Summarize(ctx context.Context, serialized string) (string, error)
}

// OpenAISummarizer summarizes extracted data with a chat completion call.
type OpenAISummarizer struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAISummarizer creates a summarizer backed by the OpenAI chat API.
func NewOpenAISummarizer(apiKey, model string, temperature float32, logger *zap.Logger) *OpenAISummarizer {
	return &OpenAISummarizer{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Summarize sends the serialized record to the model and returns its
// summary text. Failures are surfaced, not retried.
func (s *OpenAISummarizer) Summarize(ctx context.Context, serialized string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarySystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(summaryPrompt, serialized),
			},
		},
	})
	if err != nil {
		s.logger.Error("Summarization call failed", zap.Error(err))
		return "", fmt.Errorf("summarization call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from summarization model")
	}

	summary := resp.Choices[0].Message.Content
	s.logger.Debug("Summary generated", zap.Int("length", len(summary)))
	return summary, nil
}
