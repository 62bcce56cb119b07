package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	serrors "github.com/hrygo/supportflow/internal/errors"
)

// Defaults for registry configuration.
const (
	DefaultSessionTimeout = 30 * time.Minute
	DefaultContextWindow  = 5
)

// Config holds the registry configuration.
type Config struct {
	// SessionTimeout is the inactivity window after which a session expires.
	SessionTimeout time.Duration
	// ContextWindow bounds how many recent turns feed back into prompts.
	ContextWindow int
	// Escalation configures the automatic escalation triggers.
	Escalation *EscalationConfig
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() *Config {
	return &Config{
		SessionTimeout: DefaultSessionTimeout,
		ContextWindow:  DefaultContextWindow,
		Escalation:     DefaultEscalationConfig(),
	}
}

// Registry is the concurrent store of sessions. Every mutation of session
// state goes through the registry so expiry stays terminal and the
// escalation latch stays race-free. Expired sessions are marked inactive
// but retained for the process lifetime.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string

	timeout       time.Duration
	contextWindow int
	evaluator     *Evaluator
	clock         Clock
}

// NewRegistry creates a session registry.
func NewRegistry(config *Config, clock Clock) *Registry {
	if config == nil {
		config = DefaultConfig()
	}
	if config.SessionTimeout <= 0 {
		config.SessionTimeout = DefaultSessionTimeout
	}
	if config.ContextWindow <= 0 {
		config.ContextWindow = DefaultContextWindow
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Registry{
		sessions:      make(map[string]*Session),
		timeout:       config.SessionTimeout,
		contextWindow: config.ContextWindow,
		evaluator:     NewEvaluator(config.Escalation),
		clock:         clock,
	}
}

// Create generates a fresh session and returns its id.
func (r *Registry) Create(customerInfo map[string]Value) string {
	now := r.clock.Now()
	session := &Session{
		ID:           shortuuid.New(),
		CreatedAt:    now,
		LastActivity: now,
		CustomerInfo: copyValues(customerInfo),
		IsActive:     true,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.order = append(r.order, session.ID)
	r.mu.Unlock()

	slog.Debug("session created", "session_id", session.ID)
	return session.ID
}

// Get returns a snapshot of the session, applying lazy expiry: a session
// whose inactivity exceeds the timeout is marked inactive and reported as
// not found, and never revives.
func (r *Registry) Get(sessionID string) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.resolveActiveLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return r.snapshotLocked(session), nil
}

// AppendTurn atomically evaluates escalation, records the turn, updates
// the escalation latch, and bumps lastActivity. Escalation reasons follow
// "first automatic cause wins": a later automatic trigger never overwrites
// an earlier reason.
func (r *Registry) AppendTurn(sessionID string, input TurnInput) (*TurnResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.resolveActiveLocked(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, serrors.InvariantViolation(fmt.Sprintf("append to inactive session %s", sessionID))
	}

	requiresHuman, reason := r.evaluator.Evaluate(input.UserMessage, input.Confidence)

	now := r.clock.Now()
	turn := Turn{
		ID:            shortuuid.New(),
		Timestamp:     now,
		UserMessage:   input.UserMessage,
		AgentResponse: input.AgentResponse,
		Category:      input.Category,
		Confidence:    input.Confidence,
		RequiresHuman: requiresHuman,
		Metadata:      copyValues(input.Metadata),
	}
	session.Turns = append(session.Turns, turn)
	session.LastActivity = now

	if requiresHuman {
		session.RequiresHuman = true
		if session.EscalationReason == "" {
			session.EscalationReason = reason
		}
		slog.Info("session escalated",
			"session_id", sessionID,
			"reason", session.EscalationReason,
			"turn_id", turn.ID)
	}

	return &TurnResult{
		TurnID:           turn.ID,
		RequiresHuman:    session.RequiresHuman,
		EscalationReason: session.EscalationReason,
		TurnCount:        len(session.Turns),
	}, nil
}

// RecentContext returns up to n of the most recent turns rendered as
// alternating "Customer:"/"Agent:" lines, oldest of the window first.
// n <= 0 selects the configured default window.
func (r *Registry) RecentContext(sessionID string, n int) ([]string, error) {
	if n <= 0 {
		n = r.contextWindow
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.resolveActiveLocked(sessionID)
	if err != nil {
		return nil, err
	}

	start := len(session.Turns) - n
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, 2*(len(session.Turns)-start))
	for _, turn := range session.Turns[start:] {
		lines = append(lines, "Customer: "+turn.UserMessage)
		lines = append(lines, "Agent: "+turn.AgentResponse)
	}
	return lines, nil
}

// MarkForHumanIntervention manually escalates a session. Manual action
// always wins: the reason and agent id overwrite any previous values.
func (r *Registry) MarkForHumanIntervention(sessionID, reason, agentID string) error {
	if reason == "" {
		return serrors.InvalidArgument("escalation reason cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.resolveActiveLocked(sessionID)
	if err != nil {
		return err
	}

	session.RequiresHuman = true
	session.EscalationReason = reason
	if agentID != "" {
		session.HumanAgentID = agentID
	}

	slog.Info("session manually escalated",
		"session_id", sessionID,
		"reason", reason,
		"agent_id", agentID)
	return nil
}

// ListRequiringHuman returns active sessions flagged for human handling,
// in creation order. Sessions found expired during the scan are marked
// inactive and skipped.
func (r *Registry) ListRequiringHuman() []*Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Snapshot
	for _, id := range r.order {
		session := r.sessions[id]
		if session.IsActive && r.expiredLocked(session) {
			session.IsActive = false
		}
		if session.IsActive && session.RequiresHuman {
			result = append(result, r.snapshotLocked(session))
		}
	}
	return result
}

// CleanupExpired sweeps all sessions and marks expired ones inactive.
// It returns the number newly deactivated; already-inactive sessions are
// not recounted.
func (r *Registry) CleanupExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, session := range r.sessions {
		if session.IsActive && r.expiredLocked(session) {
			session.IsActive = false
			count++
		}
	}
	if count > 0 {
		slog.Info("expired sessions deactivated", "count", count)
	}
	return count
}

// Status returns the caller-facing summary of a session.
func (r *Registry) Status(sessionID string) (*Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.resolveActiveLocked(sessionID)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	status := &Status{
		SessionID:        session.ID,
		IsActive:         session.IsActive,
		TurnCount:        len(session.Turns),
		RequiresHuman:    session.RequiresHuman,
		EscalationReason: session.EscalationReason,
		DurationMinutes:  now.Sub(session.CreatedAt).Minutes(),
		LastActivity:     session.LastActivity,
	}
	if len(session.Turns) > 0 {
		status.LastCategory = session.Turns[len(session.Turns)-1].Category
	}
	return status, nil
}

// Count returns the total number of sessions, active or not.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CountActive returns the number of sessions still active, without
// triggering lazy expiry.
func (r *Registry) CountActive() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, session := range r.sessions {
		if session.IsActive {
			count++
		}
	}
	return count
}

// resolveActiveLocked looks up a session and applies lazy expiry.
// Inactive and expired sessions report not-found.
func (r *Registry) resolveActiveLocked(sessionID string) (*Session, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, serrors.SessionNotFound(sessionID)
	}
	if !session.IsActive {
		return nil, serrors.SessionNotFound(sessionID)
	}
	if r.expiredLocked(session) {
		session.IsActive = false
		slog.Debug("session expired on lookup", "session_id", sessionID)
		return nil, serrors.SessionNotFound(sessionID)
	}
	return session, nil
}

func (r *Registry) expiredLocked(session *Session) bool {
	return r.clock.Now().Sub(session.LastActivity) > r.timeout
}

func (r *Registry) snapshotLocked(session *Session) *Snapshot {
	snapshot := &Snapshot{
		ID:               session.ID,
		CreatedAt:        session.CreatedAt,
		LastActivity:     session.LastActivity,
		TurnCount:        len(session.Turns),
		CustomerInfo:     copyValues(session.CustomerInfo),
		IsActive:         session.IsActive,
		RequiresHuman:    session.RequiresHuman,
		EscalationReason: session.EscalationReason,
		HumanAgentID:     session.HumanAgentID,
	}
	if len(session.Turns) > 0 {
		snapshot.LastCategory = session.Turns[len(session.Turns)-1].Category
	}
	return snapshot
}

func copyValues(values map[string]Value) map[string]Value {
	if values == nil {
		return nil
	}
	copied := make(map[string]Value, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return copied
}
