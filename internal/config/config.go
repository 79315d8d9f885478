// Plateful - LLM-Assisted Restaurant Recommendations
// Copyright 2026 Plateful contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plateful/plateful

// Package config provides layered configuration for Plateful using Koanf:
// built-in defaults, an optional YAML config file, and environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Plateful service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	LLM      LLMConfig      `koanf:"llm"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins. Empty by default so deployments
	// must opt in explicitly rather than shipping a wildcard.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests requests per RateLimitWindow, keyed by client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds SQLite store settings.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

// LLMConfig holds settings for the chat-completions provider. An empty
// APIKey means the LLM path is not configured and the engine runs on the
// deterministic fallback alone.
type LLMConfig struct {
	Provider    string        `koanf:"provider"` // "openrouter" or "groq"
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps outbound calls client-side. Zero disables
	// the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// Configured reports whether an LLM provider is usable.
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// EngineConfig holds recommendation pipeline settings.
type EngineConfig struct {
	// DefaultLimit is applied when a request omits limit.
	DefaultLimit int `koanf:"default_limit"`

	// WorkingLimit caps candidate retrieval. It must be at least as large
	// as the biggest user-requestable limit so ranking always has the
	// full pool to choose from.
	WorkingLimit int `koanf:"working_limit"`

	// MaxRetries is the number of LLM attempts before falling back.
	MaxRetries int `koanf:"max_retries"`

	// RetryDelay is the base backoff delay; attempt n waits
	// RetryDelay * 2^n.
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MaxRequestLimit is the largest limit a request may ask for.
const MaxRequestLimit = 100

// Validate checks cross-field configuration sanity. It is called by Load
// after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}
	if c.Engine.DefaultLimit < 1 || c.Engine.DefaultLimit > MaxRequestLimit {
		return fmt.Errorf("engine.default_limit must be in [1, %d], got %d", MaxRequestLimit, c.Engine.DefaultLimit)
	}
	if c.Engine.WorkingLimit < MaxRequestLimit {
		return fmt.Errorf("engine.working_limit must be >= %d, got %d", MaxRequestLimit, c.Engine.WorkingLimit)
	}
	if c.Engine.MaxRetries < 0 {
		return fmt.Errorf("engine.max_retries cannot be negative, got %d", c.Engine.MaxRetries)
	}
	if c.Engine.RetryDelay < 0 {
		return fmt.Errorf("engine.retry_delay cannot be negative, got %s", c.Engine.RetryDelay)
	}
	if c.LLM.Configured() {
		if c.LLM.Provider != "openrouter" && c.LLM.Provider != "groq" {
			return fmt.Errorf("llm.provider must be \"openrouter\" or \"groq\", got %q", c.LLM.Provider)
		}
		if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be in [0, 2], got %g", c.LLM.Temperature)
		}
		if c.LLM.MaxTokens < 1 {
			return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
		}
		if c.LLM.Timeout <= 0 {
			return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
		}
	}
	return nil
}
