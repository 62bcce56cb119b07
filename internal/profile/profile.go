package profile

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// AI Configuration
	AIEnabled  bool   // SUPPORTFLOW_AI_ENABLED
	AIProvider string // SUPPORTFLOW_AI_PROVIDER (default: openai)
	AIAPIKey   string // SUPPORTFLOW_AI_API_KEY
	AIBaseURL  string // SUPPORTFLOW_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel    string // SUPPORTFLOW_AI_MODEL (default: gpt-4o-mini)

	// Session Configuration
	SessionTimeout  time.Duration // SUPPORTFLOW_SESSION_TIMEOUT_MINUTES (default: 30m)
	CleanupInterval time.Duration // SUPPORTFLOW_CLEANUP_INTERVAL_MINUTES (default: 10m)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key or base URL is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIBaseURL != "")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMinutesEnv reads a minutes-valued environment variable as a duration.
func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return defaultValue
	}
	return time.Duration(minutes) * time.Minute
}

// FromEnv loads configuration from SUPPORTFLOW_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("SUPPORTFLOW_AI_ENABLED") == "true"
	p.AIProvider = getEnvOrDefault("SUPPORTFLOW_AI_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("SUPPORTFLOW_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("SUPPORTFLOW_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIModel = getEnvOrDefault("SUPPORTFLOW_AI_MODEL", "gpt-4o-mini")

	p.SessionTimeout = getMinutesEnv("SUPPORTFLOW_SESSION_TIMEOUT_MINUTES", 30*time.Minute)
	p.CleanupInterval = getMinutesEnv("SUPPORTFLOW_CLEANUP_INTERVAL_MINUTES", 10*time.Minute)
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.SessionTimeout <= 0 {
		p.SessionTimeout = 30 * time.Minute
	}
	if p.CleanupInterval <= 0 {
		p.CleanupInterval = 10 * time.Minute
	}

	return nil
}
