package output

import (
	"context"

	"quickapply/internal/domain/entity"
)

// LLMPort is the chat-completion contract. Implementations wrap
// entity.ErrRateLimited when the upstream reports a rate limit and
// entity.ErrUpstreamInvalidResponse when the payload has no usable choice.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	MaxTokens   int
	Temperature float32
}

type ChatResponse struct {
	Content string
}
