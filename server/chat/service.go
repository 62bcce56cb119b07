// Package chat exposes the message-handling facade consumed by the HTTP
// layer: resolve a session, classify the message, dispatch to a
// specialist, evaluate escalation, and record the turn.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	serrors "github.com/hrygo/supportflow/internal/errors"
	"github.com/hrygo/supportflow/internal/observability"
	"github.com/hrygo/supportflow/internal/session"
	"github.com/hrygo/supportflow/plugin/ai/agent"
	"github.com/hrygo/supportflow/plugin/ai/classifier"
)

// Service orchestrates the support pipeline.
type Service struct {
	registry   *session.Registry
	classifier classifier.Service
	dispatcher *agent.Dispatcher
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewService creates the chat service.
func NewService(
	registry *session.Registry,
	cls classifier.Service,
	dispatcher *agent.Dispatcher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if cls == nil {
		return nil, fmt.Errorf("classifier cannot be nil")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher cannot be nil")
	}
	if metrics == nil {
		metrics = observability.NewMetrics(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:   registry,
		classifier: cls,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// MessageRequest carries one inbound customer message.
type MessageRequest struct {
	// SessionID is optional; empty means start a new session.
	SessionID string
	Message   string
	// Confidence is the caller-supplied score for this turn, if any.
	Confidence *float32
	Metadata   map[string]session.Value
}

// MessageResponse is the outcome of handling one message.
type MessageResponse struct {
	SessionID        string
	ResponseText     string
	Category         string
	RequiresHuman    bool
	EscalationReason string
	TurnCount        int
}

// CreateSession starts a new session for the given customer info.
func (s *Service) CreateSession(customerInfo map[string]session.Value) string {
	return s.registry.Create(customerInfo)
}

// ResolveOrCreate returns the session id to use for a request. A non-empty
// id that cannot be resolved is an error rather than a silent new session.
func (s *Service) ResolveOrCreate(sessionID string) (string, error) {
	if sessionID == "" {
		return s.registry.Create(nil), nil
	}
	if _, err := s.registry.Get(sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// HandleMessage runs the full pipeline for one customer message. The
// dispatch call happens outside any registry lock, so one slow generation
// never serializes other sessions.
func (s *Service) HandleMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, serrors.EmptyInput()
	}

	sessionID, err := s.ResolveOrCreate(req.SessionID)
	if err != nil {
		return nil, err
	}

	reqCtx := observability.NewRequestContext(s.logger, sessionID)
	category := s.classifier.Classify(req.Message)
	reqCtx.SetCategory(category)

	recentContext, err := s.registry.RecentContext(sessionID, 0)
	if err != nil {
		return nil, err
	}

	reqCtx.Debug("dispatching message",
		slog.Int(observability.LogFieldMessageLen, len(req.Message)))

	reply, err := s.dispatcher.Dispatch(ctx, category, req.Message, recentContext)
	if err != nil {
		s.metrics.RecordFailure(category)
		reqCtx.Error("generation failed", err,
			slog.String(observability.LogFieldErrorCode, string(serrors.GetCodeFromError(err, serrors.ErrCodeGenerationFailed))))
		return nil, err
	}

	result, err := s.registry.AppendTurn(sessionID, session.TurnInput{
		UserMessage:   req.Message,
		AgentResponse: reply,
		Category:      category,
		Confidence:    req.Confidence,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRequest(category)
	s.metrics.RecordDuration(category, reqCtx.Duration())
	if result.RequiresHuman {
		s.metrics.RecordEscalation()
	}

	reqCtx.Info("message handled",
		slog.String(observability.LogFieldTurnID, result.TurnID),
		slog.Bool(observability.LogFieldRequiresHuman, result.RequiresHuman),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return &MessageResponse{
		SessionID:        sessionID,
		ResponseText:     reply,
		Category:         category,
		RequiresHuman:    result.RequiresHuman,
		EscalationReason: result.EscalationReason,
		TurnCount:        result.TurnCount,
	}, nil
}

// GetSessionStatus returns the session summary.
func (s *Service) GetSessionStatus(sessionID string) (*session.Status, error) {
	return s.registry.Status(sessionID)
}

// Escalate manually flags a session for human handling.
func (s *Service) Escalate(sessionID, reason, agentID string) error {
	if err := s.registry.MarkForHumanIntervention(sessionID, reason, agentID); err != nil {
		return err
	}
	s.metrics.RecordEscalation()
	return nil
}

// ListEscalated returns active sessions awaiting a human.
func (s *Service) ListEscalated() []*session.Snapshot {
	return s.registry.ListRequiringHuman()
}

// CleanupExpired sweeps expired sessions and returns how many were
// newly deactivated.
func (s *Service) CleanupExpired() int {
	return s.registry.CleanupExpired()
}

// Metrics exposes the collector for the admin surface.
func (s *Service) Metrics() *observability.Metrics {
	return s.metrics
}
