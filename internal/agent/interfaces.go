package agent

import "context"

// AIClient is the completion transport shared by all stage agents.
type AIClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteJSON asks the model to respond with a single JSON object.
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}
