package apiv1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// EscalatedSession is one entry of the requiring-human listing.
type EscalatedSession struct {
	SessionID        string    `json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
	LastActivity     time.Time `json:"last_activity"`
	TurnCount        int       `json:"turn_count"`
	EscalationReason string    `json:"escalation_reason"`
	HumanAgentID     string    `json:"human_agent_id,omitempty"`
	LastCategory     string    `json:"last_category,omitempty"`
}

// ListEscalatedResponse is the body of GET /api/v1/admin/sessions/requiring-human.
type ListEscalatedResponse struct {
	Sessions []EscalatedSession `json:"sessions"`
	Count    int                `json:"count"`
}

// CleanupResponse is the body of POST /api/v1/admin/cleanup-sessions.
type CleanupResponse struct {
	Deactivated int `json:"deactivated"`
}

// ListEscalated returns all active sessions awaiting a human.
func (s *APIV1Service) ListEscalated(c echo.Context) error {
	snapshots := s.ChatService.ListEscalated()

	sessions := make([]EscalatedSession, 0, len(snapshots))
	for _, snapshot := range snapshots {
		sessions = append(sessions, EscalatedSession{
			SessionID:        snapshot.ID,
			CreatedAt:        snapshot.CreatedAt,
			LastActivity:     snapshot.LastActivity,
			TurnCount:        snapshot.TurnCount,
			EscalationReason: snapshot.EscalationReason,
			HumanAgentID:     snapshot.HumanAgentID,
			LastCategory:     snapshot.LastCategory,
		})
	}

	return c.JSON(http.StatusOK, &ListEscalatedResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// CleanupSessions triggers an immediate expiry sweep.
func (s *APIV1Service) CleanupSessions(c echo.Context) error {
	count := s.ChatService.CleanupExpired()
	return c.JSON(http.StatusOK, &CleanupResponse{Deactivated: count})
}

// GetMetrics returns a snapshot of the request metrics.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.ChatService.Metrics().Snapshot()

	categories := make(map[string]interface{}, len(snapshot.CategoryMetrics))
	for category, cm := range snapshot.CategoryMetrics {
		categories[category] = map[string]int64{
			"dispatch_count":      cm.DispatchCount,
			"error_count":         cm.ErrorCount,
			"average_duration_ms": cm.AverageDuration,
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"request_total":    snapshot.RequestTotal,
		"request_failed":   snapshot.RequestFailed,
		"escalation_total": snapshot.EscalationTotal,
		"success_rate":     snapshot.SuccessRate(),
		"categories":       categories,
	})
}
