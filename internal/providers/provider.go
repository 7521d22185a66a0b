package providers

import (
	"context"
	"fmt"
)

// ReviewRequest contains the prompt material sent to a review service.
type ReviewRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ReviewResponse contains the raw text response from a review service.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the review service abstraction. Review blocks until the
// service responds or ctx expires; no retry beyond rate-limit back-off is
// built in.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// New creates a provider by name.
func New(provider, model string) (Reviewer, error) {
	switch provider {
	case "ollama", "lmstudio":
		return NewOllama(provider, model)
	case "anthropic":
		return NewAnthropic(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
