package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/supportflow/plugin/ai"
	"github.com/hrygo/supportflow/plugin/ai/classifier"
)

// Specialist is a prompt-bound support agent backed by a completion service.
type Specialist struct {
	name         string
	systemPrompt string
	completion   ai.CompletionService
}

// NewSpecialist creates a specialist with an explicit prompt.
func NewSpecialist(name, systemPrompt string, completion ai.CompletionService) (*Specialist, error) {
	if name == "" {
		return nil, fmt.Errorf("agent name cannot be empty")
	}
	if completion == nil {
		return nil, fmt.Errorf("completion service cannot be nil")
	}
	return &Specialist{
		name:         name,
		systemPrompt: systemPrompt,
		completion:   completion,
	}, nil
}

// NewBillingAgent creates the billing specialist.
func NewBillingAgent(completion ai.CompletionService) (*Specialist, error) {
	return NewSpecialist(classifier.CategoryBilling, billingPrompt, completion)
}

// NewPlansAgent creates the plans and tariffs specialist.
func NewPlansAgent(completion ai.CompletionService) (*Specialist, error) {
	return NewSpecialist(classifier.CategoryPlans, plansPrompt, completion)
}

// NewTechSupportAgent creates the technical support specialist.
func NewTechSupportAgent(completion ai.CompletionService) (*Specialist, error) {
	return NewSpecialist(classifier.CategoryTechSupport, techSupportPrompt, completion)
}

// NewGeneralAgent creates the general-purpose fallback agent.
func NewGeneralAgent(completion ai.CompletionService) (*Specialist, error) {
	return NewSpecialist(classifier.CategoryGeneral, generalPrompt, completion)
}

// Name returns the name of the specialist agent.
func (s *Specialist) Name() string {
	return s.name
}

// Respond builds the chat messages and invokes the completion service.
func (s *Specialist) Respond(ctx context.Context, userMessage string, recentContext []string) (string, error) {
	messages := s.buildMessages(userMessage, recentContext)

	reply, err := s.completion.Complete(ctx, messages)
	if err != nil {
		return "", NewAgentError(s.name, "Complete", err)
	}
	return reply, nil
}

// buildMessages assembles the system prompt, recent conversation lines,
// and the current user message.
func (s *Specialist) buildMessages(userMessage string, recentContext []string) []ai.Message {
	messages := make([]ai.Message, 0, 3)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: s.systemPrompt})

	if len(recentContext) > 0 {
		messages = append(messages, ai.Message{
			Role:    ai.RoleSystem,
			Content: "Previous conversation:\n" + strings.Join(recentContext, "\n"),
		})
	}

	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: userMessage})
	return messages
}
