package llm

import (
	"context"
	"errors"
)

// ErrUnavailable indicates that the backing model could not be reached or
// returned unusable output. Callers above the provider boundary receive this
// sentinel (possibly wrapped) and substitute deterministic fallback text.
var ErrUnavailable = errors.New("llm: provider unavailable")

// Provider defines the interface for LLM providers. Implementations must be
// safe for concurrent use by multiple conversations.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
