package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/supportflow/internal/profile"
	"github.com/hrygo/supportflow/internal/session"
	"github.com/hrygo/supportflow/plugin/ai"
	"github.com/hrygo/supportflow/plugin/ai/agent"
	"github.com/hrygo/supportflow/plugin/ai/classifier"
	"github.com/hrygo/supportflow/server/chat"
)

type apiFixture struct {
	echo    *echo.Echo
	service *APIV1Service
	mock    *ai.MockCompletionService
	clock   *session.MockClock
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	clock := session.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := session.NewRegistry(session.DefaultConfig(), clock)

	mock := ai.NewMockCompletionService()
	dispatcher, err := agent.NewDefaultDispatcher(mock)
	require.NoError(t, err)

	chatService, err := chat.NewService(registry, classifier.NewRuleClassifier(nil), dispatcher, nil, nil)
	require.NoError(t, err)

	p := &profile.Profile{Mode: "demo", Version: "test"}
	apiService := NewAPIV1Service(p, chatService)

	e := echo.New()
	apiService.RegisterRoutes(e)

	return &apiFixture{echo: e, service: apiService, mock: mock, clock: clock}
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"ai_enabled":false`)
	assert.NotContains(t, rec.Body.String(), "ai_provider")
}

func TestHealthEndpointReportsProvider(t *testing.T) {
	f := newAPIFixture(t)
	f.service.Profile.AIEnabled = true
	f.service.Profile.AIAPIKey = "test-key"
	f.service.Profile.AIProvider = "openai"
	f.service.Profile.AIModel = "gpt-4o-mini"

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ai_enabled":true`)
	assert.Contains(t, rec.Body.String(), `"ai_provider":"openai"`)
	assert.Contains(t, rec.Body.String(), `"ai_model":"gpt-4o-mini"`)
}

func TestChatEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.mock.QueueResponse("your invoice total is 120")

	rec := f.do(http.MethodPost, "/api/v1/chat", `{"message":"why is my invoice so high"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "your invoice total is 120", resp.Response)
	assert.Equal(t, classifier.CategoryBilling, resp.Category)
	assert.Equal(t, 1, resp.TurnCount)
}

func TestChatEmptyMessage(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_INPUT")
}

func TestChatUnknownSession(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/chat", `{"session_id":"missing","message":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_NOT_FOUND")
}

func TestChatGenerationFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.mock.QueueError(errors.New("backend down"))

	rec := f.do(http.MethodPost, "/api/v1/chat", `{"message":"my invoice"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "GENERATION_FAILED")
}

func TestCreateSessionAndStatus(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/sessions", `{"customer_info":{"name":"alice","tier":3}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	rec = f.do(http.MethodGet, "/api/v1/sessions/"+created.SessionID+"/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsActive)
	assert.Equal(t, 0, status.TurnCount)
}

func TestStatusNotFound(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/sessions/missing/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEscalateAndListRequiringHuman(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/sessions", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/escalate",
		`{"reason":"VIP customer","agent_id":"agent-7"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/admin/sessions/requiring-human", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing ListEscalatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, created.SessionID, listing.Sessions[0].SessionID)
	assert.Equal(t, "VIP customer", listing.Sessions[0].EscalationReason)
	assert.Equal(t, "agent-7", listing.Sessions[0].HumanAgentID)
}

func TestEscalateEmptyReason(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/sessions", `{}`)
	var created CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/escalate", `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCleanupEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.do(http.MethodPost, "/api/v1/sessions", `{}`)
	f.do(http.MethodPost, "/api/v1/sessions", `{}`)
	f.clock.Advance(31 * time.Minute)

	rec := f.do(http.MethodPost, "/api/v1/admin/cleanup-sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cleanup CleanupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleanup))
	assert.Equal(t, 2, cleanup.Deactivated)
}

func TestRateLimitedRequest(t *testing.T) {
	f := newAPIFixture(t)

	// Exhaust the burst allowance for the test client.
	var rec *httptest.ResponseRecorder
	for i := 0; i < 50; i++ {
		rec = f.do(http.MethodGet, "/api/v1/admin/metrics", "")
		if rec.Code == http.StatusTooManyRequests {
			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/chat", `{"message":"my invoice"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/admin/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_total":1`)
}
