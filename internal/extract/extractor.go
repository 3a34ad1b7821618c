// Package extract turns bill images into structured per-image records
// using a hosted vision model, and summarizes consolidated records with a
// second prompt call. The model is an opaque collaborator: its failures
// are surfaced unchanged, never retried here.
package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/models"
)

// Extractor produces one raw extraction per bill image.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (models.RawExtraction, error)
}

// OpenAIExtractor extracts bill data from images using the vision API.
type OpenAIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI chat API.
func NewOpenAIExtractor(apiKey, model string, temperature float32, logger *zap.Logger) *OpenAIExtractor {
	return &OpenAIExtractor{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Extract sends a single bill image to the vision model and returns its
// isolated reading, validated and normalized at the boundary.
func (e *OpenAIExtractor) Extract(ctx context.Context, image []byte) (models.RawExtraction, error) {
	e.logger.Debug("Extracting bill data from image", zap.Int("size_bytes", len(image)))

	base64Img := base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64Img),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Vision API call failed", zap.Error(err))
		return models.RawExtraction{}, fmt.Errorf("extraction call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return models.RawExtraction{}, fmt.Errorf("no response from vision model")
	}

	content := resp.Choices[0].Message.Content

	var raw models.RawExtraction
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		e.logger.Error("Failed to parse extraction result",
			zap.Error(err),
			zap.String("content", content))
		return models.RawExtraction{}, fmt.Errorf("failed to parse extraction result: %w", err)
	}

	if err := ValidateRawExtraction(&raw); err != nil {
		return models.RawExtraction{}, fmt.Errorf("extraction rejected at boundary: %w", err)
	}

	e.logger.Info("Bill data extracted",
		zap.String("vendor", raw.Vendor),
		zap.String("date", raw.Date),
		zap.Float64("amount", raw.Amount),
		zap.Int("line_items", len(raw.LineItems)))

	return raw, nil
}
