package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func confidenceOf(v float32) *float32 { return &v }

func TestEvaluateLowConfidence(t *testing.T) {
	e := NewEvaluator(nil)

	requiresHuman, reason := e.Evaluate("any message at all", confidenceOf(0.2))
	assert.True(t, requiresHuman)
	assert.Equal(t, ReasonLowConfidence, reason)

	requiresHuman, reason = e.Evaluate("any message at all", confidenceOf(0.9))
	assert.False(t, requiresHuman)
	assert.Empty(t, reason)
}

func TestEvaluateKeywordTrigger(t *testing.T) {
	e := NewEvaluator(nil)

	requiresHuman, reason := e.Evaluate("this is terrible, I want to speak to a manager", nil)
	assert.True(t, requiresHuman)
	assert.Equal(t, ReasonCustomerRequested, reason)
}

func TestEvaluateKeywordRegardlessOfConfidence(t *testing.T) {
	e := NewEvaluator(nil)

	requiresHuman, _ := e.Evaluate("I want to file a complaint", confidenceOf(0.95))
	assert.True(t, requiresHuman)
}

func TestEvaluateConfidenceBeforeKeyword(t *testing.T) {
	e := NewEvaluator(nil)

	// Both triggers fire; the low-confidence trigger owns the reason.
	requiresHuman, reason := e.Evaluate("I want to file a complaint", confidenceOf(0.1))
	assert.True(t, requiresHuman)
	assert.Equal(t, ReasonLowConfidence, reason)
}

func TestEvaluateNoTrigger(t *testing.T) {
	e := NewEvaluator(nil)

	requiresHuman, reason := e.Evaluate("how much data is left on my plan", nil)
	assert.False(t, requiresHuman)
	assert.Empty(t, reason)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	e := NewEvaluator(nil)

	// Exactly at the threshold does not trigger; strictly below does.
	requiresHuman, _ := e.Evaluate("hello", confidenceOf(0.3))
	assert.False(t, requiresHuman)

	requiresHuman, _ = e.Evaluate("hello", confidenceOf(0.29))
	assert.True(t, requiresHuman)
}

func TestEvaluateCustomConfig(t *testing.T) {
	e := NewEvaluator(&EscalationConfig{
		Keywords:               []string{"supervisor"},
		LowConfidenceThreshold: 0.5,
	})

	requiresHuman, reason := e.Evaluate("get me your SUPERVISOR", nil)
	assert.True(t, requiresHuman)
	assert.Equal(t, ReasonCustomerRequested, reason)

	requiresHuman, _ = e.Evaluate("hello", confidenceOf(0.4))
	assert.True(t, requiresHuman)
}
