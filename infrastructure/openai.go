package infrastructure

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kkratossdead/Cv-Ia/analyzer"
	"github.com/kkratossdead/Cv-Ia/domain"
)

// jpegQuality bounds the size of the embedded page images.
const jpegQuality = 85

// OpenAIClient submits multimodal scoring requests to the OpenAI API. One
// request per document, no retries.
type OpenAIClient struct {
	client          *openai.Client
	model           string
	reasoningEffort string
	logger          *zap.Logger
}

// NewOpenAIClient builds the vision client from the validated configuration.
func NewOpenAIClient(cfg *Config, log *zap.Logger) *OpenAIClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIClient{
		client:          openai.NewClient(cfg.OpenAIKey),
		model:           cfg.Model,
		reasoningEffort: cfg.ReasoningEffort,
		logger:          log,
	}
}

// Model returns the fixed model identifier used for every request.
func (c *OpenAIClient) Model() string { return c.model }

// Analyze sends one request containing every page image followed by the
// prompt text and returns the raw textual output with token usage. Any
// transport or provider failure is a *domain.ModelCallError and yields no
// partial result.
func (c *OpenAIClient) Analyze(ctx context.Context, images []image.Image, prompt string) (*analyzer.ModelOutput, error) {
	parts := make([]openai.ChatMessagePart, 0, len(images)+1)
	for i, img := range images {
		uri, err := encodeImageDataURI(img)
		if err != nil {
			return nil, &domain.ModelCallError{Err: fmt.Errorf("encode page %d: %w", i+1, err)}
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    uri,
				Detail: openai.ImageURLDetailLow,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:           c.model,
		ReasoningEffort: c.reasoningEffort,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
	})
	if err != nil {
		return nil, &domain.ModelCallError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ModelCallError{Err: errors.New("provider returned no choices")}
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.Int("images", len(images)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return &analyzer.ModelOutput{
		Text: resp.Choices[0].Message.Content,
		Usage: analyzer.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func encodeImageDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
