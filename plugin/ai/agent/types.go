// Package agent implements the specialist support agents and the
// dispatcher that routes a classified message to the right one.
package agent

import (
	"context"
	"fmt"
)

// SpecialistAgent is the interface for all specialist support agents.
type SpecialistAgent interface {
	// Name returns the name of the specialist agent.
	Name() string

	// Respond produces a reply to the user message, given the recent
	// conversation context rendered as "Customer:"/"Agent:" lines.
	Respond(ctx context.Context, userMessage string, recentContext []string) (string, error)
}

// AgentError represents an error from a specialist agent.
type AgentError struct {
	AgentName string // Name of the agent that produced the error
	Operation string // Operation being performed when error occurred
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("agent %s: %s failed: %v", e.AgentName, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *AgentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAgentError creates a new AgentError.
func NewAgentError(agentName, operation string, err error) *AgentError {
	return &AgentError{
		AgentName: agentName,
		Operation: operation,
		Err:       err,
	}
}

// Compile-time interface compliance checks.
var (
	_ SpecialistAgent = (*Specialist)(nil)
)
