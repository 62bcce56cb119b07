// Package ai provides the completion layer used by the specialist agents.
// It wraps an OpenAI-compatible endpoint behind a small interface so the
// rest of the system can be tested without network access.
package ai

import "context"

// Message roles understood by OpenAI-compatible chat endpoints.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message sent to the completion backend.
type Message struct {
	Role    string
	Content string
}

// CompletionService generates a reply for a prepared list of chat messages.
type CompletionService interface {
	// Complete performs a chat completion and returns the generated text.
	Complete(ctx context.Context, messages []Message) (string, error)
}
