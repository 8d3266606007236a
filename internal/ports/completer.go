package ports

import "context"

// Completer is a prompt-in/text-out language model backend. Output is
// opaque text; no streaming or structured-output mode is relied upon.
type Completer interface {
	Complete(ctx context.Context, modelID string, maxTokens int, prompt string) (string, error)
}
