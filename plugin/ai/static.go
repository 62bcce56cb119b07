package ai

import (
	"context"
	"strings"
)

// StaticCompletionService serves canned replies when no completion backend
// is configured. It keeps demo mode usable without an API key.
type StaticCompletionService struct{}

var _ CompletionService = (*StaticCompletionService)(nil)

// NewStaticCompletionService creates a static completion service.
func NewStaticCompletionService() *StaticCompletionService {
	return &StaticCompletionService{}
}

// Complete returns a canned acknowledgement built from the last user message.
func (s *StaticCompletionService) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			lastUser = messages[i].Content
			break
		}
	}

	var b strings.Builder
	b.WriteString("Thank you for reaching out. ")
	if lastUser != "" {
		b.WriteString("I received your message and a support specialist will review it. ")
	}
	b.WriteString("Is there anything else I can help you with?")
	return b.String(), nil
}
