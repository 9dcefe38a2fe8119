package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts text-generation providers for email analysis.
type Client interface {
	AnalyzeEmail(ctx context.Context, input AnalyzeInput) (string, error)
}

// AnalyzeInput captures the inputs needed for one email analysis.
type AnalyzeInput struct {
	Content string
}

// ErrNotConfigured is returned before any request when the provider
// endpoint or credentials are missing.
var ErrNotConfigured = errors.New("extraction client not configured")

// TransportError wraps a network or service failure on the provider call.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("extraction transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// AnalyzeEmail returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeEmail(ctx context.Context, input AnalyzeInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
