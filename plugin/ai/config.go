package ai

import (
	"time"

	"github.com/hrygo/supportflow/internal/profile"
)

// Config holds the completion backend configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// ConfigFromProfile builds a Config from the server profile.
func ConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	if p.AIBaseURL != "" {
		cfg.BaseURL = p.AIBaseURL
	}
	cfg.APIKey = p.AIAPIKey
	if p.AIModel != "" {
		cfg.ChatModel = p.AIModel
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
}
