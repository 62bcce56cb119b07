package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := SessionNotFound("abc123")
	assert.Equal(t, "[SESSION_NOT_FOUND] session not found: abc123", err.Error())

	cause := stderrors.New("connection refused")
	wrapped := GenerationFailed("billing", cause)
	assert.Contains(t, wrapped.Error(), "GENERATION_FAILED")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := GenerationFailed("plans", cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", SessionNotFound("x"))
	assert.True(t, IsCode(err, ErrCodeSessionNotFound))
	assert.False(t, IsCode(err, ErrCodeEmptyInput))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeSessionNotFound))
}

func TestGetCodeFromError(t *testing.T) {
	assert.Equal(t, ErrCodeEmptyInput, GetCodeFromError(EmptyInput(), ErrCodeServiceUnavailable))
	assert.Equal(t, ErrCodeServiceUnavailable, GetCodeFromError(stderrors.New("plain"), ErrCodeServiceUnavailable))
}

func TestGenerationFailedContext(t *testing.T) {
	err := GenerationFailed("tech_support", stderrors.New("boom"))
	require.NotNil(t, err.Context)
	assert.Equal(t, "tech_support", err.Context["category"])
}

func TestWithContext(t *testing.T) {
	err := InvariantViolation("bad state").WithContext("session_id", "s1")
	assert.Equal(t, "s1", err.Context["session_id"])
}
