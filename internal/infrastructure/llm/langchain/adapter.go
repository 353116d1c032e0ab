// Package langchain serves chat requests through a langchaingo model.
package langchain

import (
	"context"
	"fmt"
	"strings"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var _ output.LLMPort = (*Adapter)(nil)

// Generator is the part of llms.Model the adapter relies on.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Adapter struct {
	model  Generator
	logger output.LoggerPort
}

// NewAdapter builds an OpenAI-compatible langchaingo client.
func NewAdapter(cfg Config, logger output.LoggerPort) (*Adapter, error) {
	llm, err := lcopenai.New(
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithBaseURL(cfg.BaseURL),
		lcopenai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}
	return NewWithModel(llm, logger), nil
}

func NewWithModel(model Generator, logger output.LoggerPort) *Adapter {
	return &Adapter{model: model, logger: logger}
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(float64(req.Temperature)))

	resp, err := a.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if isRateLimited(err) {
			return nil, fmt.Errorf("generate content: %w: %v", entity.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("no choices in response: %w", entity.ErrUpstreamInvalidResponse)
	}

	if a.logger != nil {
		a.logger.Debug("langchain completion", "stop_reason", resp.Choices[0].StopReason)
	}
	return &output.ChatResponse{Content: resp.Choices[0].Content}, nil
}

func messageType(role entity.MessageRole) schema.ChatMessageType {
	if role == entity.RoleSystem {
		return schema.ChatMessageTypeSystem
	}
	return schema.ChatMessageTypeHuman
}

// langchaingo flattens provider errors into strings.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
