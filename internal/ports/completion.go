package ports

import "context"

// A single LLM completion call.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

// Contract for the shared model handle. The planner and the incident
// recovery service both delegate their reasoning through this boundary;
// one provider instance is constructed at startup and shared.
type CompletionProvider interface {
	// Complete returns the raw model text for the request.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
