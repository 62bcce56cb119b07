package agent

import (
	"context"
	"fmt"
	"sync"

	serrors "github.com/hrygo/supportflow/internal/errors"
	"github.com/hrygo/supportflow/plugin/ai"
)

// Dispatcher routes a classified message to the matching specialist agent.
// Categories without a dedicated specialist fall back to the general agent.
type Dispatcher struct {
	mu       sync.RWMutex
	agents   map[string]SpecialistAgent
	fallback SpecialistAgent
}

// NewDispatcher creates a dispatcher with the given fallback agent.
func NewDispatcher(fallback SpecialistAgent) (*Dispatcher, error) {
	if fallback == nil {
		return nil, fmt.Errorf("fallback agent cannot be nil")
	}
	return &Dispatcher{
		agents:   make(map[string]SpecialistAgent),
		fallback: fallback,
	}, nil
}

// NewDefaultDispatcher creates a dispatcher with the standard telecom
// specialists registered and the general agent as fallback.
func NewDefaultDispatcher(completion ai.CompletionService) (*Dispatcher, error) {
	general, err := NewGeneralAgent(completion)
	if err != nil {
		return nil, err
	}

	d, err := NewDispatcher(general)
	if err != nil {
		return nil, err
	}

	billing, err := NewBillingAgent(completion)
	if err != nil {
		return nil, err
	}
	plans, err := NewPlansAgent(completion)
	if err != nil {
		return nil, err
	}
	techSupport, err := NewTechSupportAgent(completion)
	if err != nil {
		return nil, err
	}

	for _, specialist := range []SpecialistAgent{billing, plans, techSupport} {
		if err := d.Register(specialist.Name(), specialist); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Register registers a specialist agent for a category.
func (d *Dispatcher) Register(category string, agent SpecialistAgent) error {
	if category == "" {
		return fmt.Errorf("category cannot be empty")
	}
	if agent == nil {
		return fmt.Errorf("agent cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.agents[category]; exists {
		return fmt.Errorf("agent for category %s already registered", category)
	}
	d.agents[category] = agent
	return nil
}

// Get retrieves the agent for a category, falling back to the general agent.
func (d *Dispatcher) Get(category string) SpecialistAgent {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if agent, exists := d.agents[category]; exists {
		return agent
	}
	return d.fallback
}

// Categories returns the registered category names.
func (d *Dispatcher) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	categories := make([]string, 0, len(d.agents))
	for category := range d.agents {
		categories = append(categories, category)
	}
	return categories
}

// Dispatch forwards the message and recent context to the agent for the
// category. Agent failures are never masked with a fabricated answer; they
// surface as a generation error carrying the attempted category.
func (d *Dispatcher) Dispatch(ctx context.Context, category, message string, recentContext []string) (string, error) {
	agent := d.Get(category)

	reply, err := agent.Respond(ctx, message, recentContext)
	if err != nil {
		return "", serrors.GenerationFailed(category, err)
	}
	return reply, nil
}
