// Package answer turns field prompts into free-text answers through the
// chat-completion port.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/usecase/retry"

	"golang.org/x/sync/semaphore"
)

type Config struct {
	MaxTokens   int
	Temperature float32
	MaxRetries  int
	Backoff     retry.Backoff
	WindowSize  int
	Persona     []string
	Sleep       retry.SleepFunc
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   150,
		Temperature: 1.3,
		MaxRetries:  3,
		Backoff:     retry.LinearBackoff{Base: 5 * time.Second, Max: 50 * time.Second},
		WindowSize:  DefaultWindowSize,
	}
}

// Provider owns one generation context and serialises calls against it.
type Provider struct {
	llm    output.LLMPort
	logger output.LoggerPort
	cfg    Config
	window *Window
	busy   *semaphore.Weighted
}

func NewProvider(llm output.LLMPort, logger output.LoggerPort, cfg Config) (*Provider, error) {
	if cfg.Backoff == nil {
		cfg.Backoff = DefaultConfig().Backoff
	}
	if cfg.Sleep == nil {
		cfg.Sleep = retry.Sleep
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	seeds := make([]entity.Message, 0, len(cfg.Persona))
	for _, p := range cfg.Persona {
		seeds = append(seeds, entity.Message{Role: entity.RoleSystem, Content: p})
	}
	window, err := NewWindow(cfg.WindowSize, seeds...)
	if err != nil {
		return nil, fmt.Errorf("generation window: %w", err)
	}

	return &Provider{
		llm:    llm,
		logger: logger,
		cfg:    cfg,
		window: window,
		busy:   semaphore.NewWeighted(1),
	}, nil
}

// Generate appends prompt to the context window and returns one trimmed
// completion. Rate-limited calls are retried with the same request and a
// growing delay; any other failure is returned as is.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.busy.TryAcquire(1) {
		p.logger.Debug("Generation in progress, waiting")
		if err := p.busy.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("wait for generation slot: %w", err)
		}
	}
	defer p.busy.Release(1)

	p.window.Push(entity.Message{Role: entity.RoleUser, Content: prompt})
	req := output.ChatRequest{
		Messages:    p.window.Messages(),
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}

	for attempt := 0; ; attempt++ {
		p.logger.Debug("Requesting completion", "attempt", attempt+1, "messages", len(req.Messages))

		resp, err := p.llm.Chat(ctx, req)
		if err == nil {
			answer := strings.TrimSpace(resp.Content)
			if answer == "" {
				return "", fmt.Errorf("empty completion: %w", entity.ErrUpstreamInvalidResponse)
			}
			return answer, nil
		}

		if !errors.Is(err, entity.ErrRateLimited) {
			return "", err
		}
		if attempt >= p.cfg.MaxRetries {
			return "", fmt.Errorf("gave up after %d retries: %w", attempt, err)
		}

		wait := p.cfg.Backoff.Delay(attempt + 1)
		p.logger.Warn("Rate limited, backing off", "retry", attempt+1, "wait", wait.String())
		if err := p.cfg.Sleep(ctx, wait); err != nil {
			return "", fmt.Errorf("backoff interrupted: %w", err)
		}
	}
}
