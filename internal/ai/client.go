package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when the completer is used without credentials.
var ErrNoAPIKey = errors.New("llm api key not configured")

// Completer is the interface for chat-completion providers.
type Completer interface {
	// Complete sends one system instruction and one user prompt and returns
	// the raw text of the first choice.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// StatusError is a non-200 response from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm api returned status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
