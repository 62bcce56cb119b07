package profile

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDefaults(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.False(t, p.AIEnabled)
	assert.Equal(t, "openai", p.AIProvider)
	assert.Equal(t, "https://api.openai.com/v1", p.AIBaseURL)
	assert.Equal(t, "gpt-4o-mini", p.AIModel)
	assert.Equal(t, 30*time.Minute, p.SessionTimeout)
	assert.Equal(t, 10*time.Minute, p.CleanupInterval)
}

func TestProfileFromEnv(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("SUPPORTFLOW_AI_ENABLED", "true")
	t.Setenv("SUPPORTFLOW_AI_PROVIDER", "deepseek")
	t.Setenv("SUPPORTFLOW_AI_API_KEY", "test-key-123")
	t.Setenv("SUPPORTFLOW_AI_MODEL", "deepseek-chat")
	t.Setenv("SUPPORTFLOW_SESSION_TIMEOUT_MINUTES", "45")

	p := &Profile{}
	p.FromEnv()

	assert.True(t, p.AIEnabled)
	assert.Equal(t, "deepseek", p.AIProvider)
	assert.Equal(t, "test-key-123", p.AIAPIKey)
	assert.Equal(t, "deepseek-chat", p.AIModel)
	assert.Equal(t, 45*time.Minute, p.SessionTimeout)
}

func TestProfileInvalidTimeout(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("SUPPORTFLOW_SESSION_TIMEOUT_MINUTES", "not-a-number")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, 30*time.Minute, p.SessionTimeout, "invalid value falls back to default")
}

func TestIsAIEnabled(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Profile)
		expected bool
	}{
		{
			name:     "disabled",
			setup:    func(p *Profile) { p.AIEnabled = false },
			expected: false,
		},
		{
			name: "enabled without key or base URL",
			setup: func(p *Profile) {
				p.AIEnabled = true
			},
			expected: false,
		},
		{
			name: "enabled with API key",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIAPIKey = "test-key"
			},
			expected: true,
		},
		{
			name: "enabled with base URL only (local provider)",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIBaseURL = "http://localhost:11434/v1"
			},
			expected: true,
		},
		{
			name: "disabled with API key",
			setup: func(p *Profile) {
				p.AIEnabled = false
				p.AIAPIKey = "test-key"
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{}
			tt.setup(p)
			assert.Equal(t, tt.expected, p.IsAIEnabled())
		})
	}
}

func TestProfileValidate(t *testing.T) {
	p := &Profile{Mode: "weird", Port: 8080}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode, "unknown mode falls back to demo")
	assert.Equal(t, 30*time.Minute, p.SessionTimeout)

	bad := &Profile{Mode: "prod", Port: -1}
	assert.Error(t, bad.Validate())
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SUPPORTFLOW_AI_ENABLED",
		"SUPPORTFLOW_AI_PROVIDER",
		"SUPPORTFLOW_AI_API_KEY",
		"SUPPORTFLOW_AI_BASE_URL",
		"SUPPORTFLOW_AI_MODEL",
		"SUPPORTFLOW_SESSION_TIMEOUT_MINUTES",
		"SUPPORTFLOW_CLEANUP_INTERVAL_MINUTES",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
