package generator

import "context"

// Prompt is a single system+user instruction pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// LLMClient abstracts the language model so implementations can be swapped
// or mocked in tests. No streaming; one raw text response per call.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings holds the base configuration for concrete clients.
type LLMSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}
