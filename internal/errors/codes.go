package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for support operations.
type ErrorCode string

const (
	// ErrCodeSessionNotFound indicates the session id is unknown or expired.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrCodeEmptyInput indicates a blank user message was rejected.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeGenerationFailed indicates the completion collaborator failed or timed out.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	// ErrCodeInvariantViolation indicates internal state would have been corrupted.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// SupportError represents a structured error for support operations.
type SupportError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *SupportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SupportError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *SupportError) WithContext(key string, value interface{}) *SupportError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *SupportError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// SessionNotFound creates a session not found error.
func SessionNotFound(sessionID string) *SupportError {
	return &SupportError{
		Code:    ErrCodeSessionNotFound,
		Message: fmt.Sprintf("session not found: %s", sessionID),
	}
}

// EmptyInput creates an empty input error.
func EmptyInput() *SupportError {
	return &SupportError{Code: ErrCodeEmptyInput, Message: "user message cannot be empty"}
}

// GenerationFailed creates a generation failed error carrying the attempted category.
func GenerationFailed(category string, cause error) *SupportError {
	return &SupportError{
		Code:    ErrCodeGenerationFailed,
		Message: fmt.Sprintf("completion failed for category %s", category),
		Cause:   cause,
		Context: map[string]interface{}{"category": category},
	}
}

// InvariantViolation creates an invariant violation error.
func InvariantViolation(msg string) *SupportError {
	return &SupportError{Code: ErrCodeInvariantViolation, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *SupportError {
	return &SupportError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *SupportError {
	return &SupportError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *SupportError {
	return &SupportError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *SupportError {
	return &SupportError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code, unwrapping as needed.
func IsCode(err error, code ErrorCode) bool {
	var se *SupportError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a SupportError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var se *SupportError
	if errors.As(err, &se) {
		return se.Code
	}
	return defaultCode
}
