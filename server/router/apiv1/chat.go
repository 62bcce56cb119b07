package apiv1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/supportflow/internal/session"
	"github.com/hrygo/supportflow/server/chat"
)

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	SessionID  string                   `json:"session_id,omitempty"`
	Message    string                   `json:"message"`
	Confidence *float32                 `json:"confidence,omitempty"`
	Metadata   map[string]session.Value `json:"metadata,omitempty"`
}

// ChatResponse is the body returned by POST /api/v1/chat.
type ChatResponse struct {
	SessionID        string `json:"session_id"`
	Response         string `json:"response"`
	Category         string `json:"category"`
	RequiresHuman    bool   `json:"requires_human"`
	EscalationReason string `json:"escalation_reason,omitempty"`
	TurnCount        int    `json:"turn_count"`
}

// CreateSessionRequest is the body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	CustomerInfo map[string]session.Value `json:"customer_info,omitempty"`
}

// CreateSessionResponse is the body returned by POST /api/v1/sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// StatusResponse is the body of GET /api/v1/sessions/:id/status.
type StatusResponse struct {
	SessionID        string    `json:"session_id"`
	IsActive         bool      `json:"is_active"`
	TurnCount        int       `json:"turn_count"`
	RequiresHuman    bool      `json:"requires_human"`
	EscalationReason string    `json:"escalation_reason,omitempty"`
	DurationMinutes  float64   `json:"duration_minutes"`
	LastActivity     time.Time `json:"last_activity"`
	LastCategory     string    `json:"last_category,omitempty"`
}

// EscalateRequest is the body of POST /api/v1/sessions/:id/escalate.
type EscalateRequest struct {
	Reason  string `json:"reason"`
	AgentID string `json:"agent_id,omitempty"`
}

// HandleChat processes one customer message.
func (s *APIV1Service) HandleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	resp, err := s.ChatService.HandleMessage(c.Request().Context(), &chat.MessageRequest{
		SessionID:  req.SessionID,
		Message:    req.Message,
		Confidence: req.Confidence,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &ChatResponse{
		SessionID:        resp.SessionID,
		Response:         resp.ResponseText,
		Category:         resp.Category,
		RequiresHuman:    resp.RequiresHuman,
		EscalationReason: resp.EscalationReason,
		TurnCount:        resp.TurnCount,
	})
}

// CreateSession explicitly starts a session before the first message.
func (s *APIV1Service) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	sessionID := s.ChatService.CreateSession(req.CustomerInfo)
	return c.JSON(http.StatusCreated, &CreateSessionResponse{SessionID: sessionID})
}

// GetSessionStatus returns the session summary.
func (s *APIV1Service) GetSessionStatus(c echo.Context) error {
	status, err := s.ChatService.GetSessionStatus(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &StatusResponse{
		SessionID:        status.SessionID,
		IsActive:         status.IsActive,
		TurnCount:        status.TurnCount,
		RequiresHuman:    status.RequiresHuman,
		EscalationReason: status.EscalationReason,
		DurationMinutes:  status.DurationMinutes,
		LastActivity:     status.LastActivity,
		LastCategory:     status.LastCategory,
	})
}

// EscalateSession manually flags a session for human handling.
func (s *APIV1Service) EscalateSession(c echo.Context) error {
	var req EscalateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.ChatService.Escalate(c.Param("id"), req.Reason, req.AgentID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
