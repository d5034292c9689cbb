package llm

import "context"

// Request is one completion call. Temperature zero means the provider default.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
}

// Provider generates a text completion. An empty string with a nil error means
// the model returned no content; callers treat that as absence, not failure.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Close() error
}
