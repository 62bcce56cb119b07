// Package apiv1 exposes the REST surface of the support server.
package apiv1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	serrors "github.com/hrygo/supportflow/internal/errors"
	"github.com/hrygo/supportflow/internal/profile"
	"github.com/hrygo/supportflow/server/chat"
	"github.com/hrygo/supportflow/server/middleware"
)

// APIV1Service holds the handlers for the v1 REST API.
type APIV1Service struct {
	Profile     *profile.Profile
	ChatService *chat.Service
	RateLimiter *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(p *profile.Profile, chatService *chat.Service) *APIV1Service {
	return &APIV1Service{
		Profile:     p,
		ChatService: chatService,
		RateLimiter: middleware.NewRateLimiter(10, 20),
	}
}

// RegisterRoutes registers all v1 routes with the given echo instance.
// Typed errors escaping middleware are rendered through errorResponse so
// rate limit rejections carry the same shape as handler errors.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	defaultHandler := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var se *serrors.SupportError
		if errors.As(err, &se) {
			if !c.Response().Committed {
				_ = errorResponse(c, se)
			}
			return
		}
		defaultHandler(err, c)
	}

	e.GET("/healthz", s.Health)

	group := e.Group("/api/v1")
	group.Use(echomw.CORS())
	group.Use(s.RateLimiter.Middleware())

	group.POST("/chat", s.HandleChat)
	group.POST("/sessions", s.CreateSession)
	group.GET("/sessions/:id/status", s.GetSessionStatus)
	group.POST("/sessions/:id/escalate", s.EscalateSession)

	admin := group.Group("/admin")
	admin.GET("/sessions/requiring-human", s.ListEscalated)
	admin.POST("/cleanup-sessions", s.CleanupSessions)
	admin.GET("/metrics", s.GetMetrics)
}

// Health reports process liveness and completion backend availability.
// Availability comes from configuration, not from probing the LLM.
func (s *APIV1Service) Health(c echo.Context) error {
	body := map[string]interface{}{
		"status":     "ok",
		"version":    s.Profile.Version,
		"ai_enabled": s.Profile.IsAIEnabled(),
	}
	if s.Profile.IsAIEnabled() {
		body["ai_provider"] = s.Profile.AIProvider
		body["ai_model"] = s.Profile.AIModel
	}
	return c.JSON(http.StatusOK, body)
}

// errorResponse renders a typed support error with the right status code.
func errorResponse(c echo.Context, err error) error {
	code := serrors.GetCodeFromError(err, serrors.ErrCodeServiceUnavailable)

	status := http.StatusInternalServerError
	switch code {
	case serrors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	case serrors.ErrCodeEmptyInput, serrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case serrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case serrors.ErrCodeGenerationFailed, serrors.ErrCodeServiceUnavailable:
		status = http.StatusBadGateway
	case serrors.ErrCodeInvariantViolation:
		status = http.StatusInternalServerError
	}

	return c.JSON(status, map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}
