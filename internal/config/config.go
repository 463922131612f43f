// Package config provides configuration loading for portald.
//
// Configuration is read from an optional YAML file and overridden by
// environment variables. Defaults cover every field so the daemon starts
// with no configuration at all (aside from the collaborator API key).
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete portald configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Registration RegistrationConfig `koanf:"registration"`
	Interview    InterviewConfig    `koanf:"interview"`
	LLM          LLMConfig          `koanf:"llm"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger construction settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

// RegistrationConfig holds the admissible intake window and the minimum
// internship duration, both enforced by the date-range rule.
type RegistrationConfig struct {
	// WindowMin and WindowMax are inclusive calendar bounds, YYYY-MM-DD.
	WindowMin string `koanf:"window_min"`
	WindowMax string `koanf:"window_max"`
	// MinDays is the minimum day-count between start and end dates.
	MinDays int `koanf:"min_days"`
}

// InterviewConfig holds interview session tuning.
type InterviewConfig struct {
	// ProgressStep is added per accepted turn; the session completes when
	// progress reaches 100, bounding the turn count at 100/ProgressStep.
	ProgressStep int `koanf:"progress_step"`
	// SettleDelay is the pause between the closing message and the status
	// advance. Purely cosmetic; zero is valid and used in tests.
	SettleDelay time.Duration `koanf:"settle_delay"`
	// TurnTimeout bounds each collaborator call. A timeout is treated as a
	// collaborator failure, not a session error.
	TurnTimeout time.Duration `koanf:"turn_timeout"`
}

// LLMConfig holds the text-generation collaborator connection settings.
// Any OpenAI-compatible endpoint works.
type LLMConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
}

// Default returns the configuration defaults: the Dec 2025 - Feb 2026
// intake window, 14-day minimum, five-turn interviews.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8087,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Registration: RegistrationConfig{
			WindowMin: "2025-12-01",
			WindowMax: "2026-02-28",
			MinDays:   14,
		},
		Interview: InterviewConfig{
			ProgressStep: 20,
			SettleDelay:  5 * time.Second,
			TurnTimeout:  60 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
	}
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	winMin, err := time.Parse("2006-01-02", c.Registration.WindowMin)
	if err != nil {
		return fmt.Errorf("invalid registration window_min: %w", err)
	}
	winMax, err := time.Parse("2006-01-02", c.Registration.WindowMax)
	if err != nil {
		return fmt.Errorf("invalid registration window_max: %w", err)
	}
	if winMax.Before(winMin) {
		return errors.New("registration window_max precedes window_min")
	}
	if c.Registration.MinDays < 1 {
		return fmt.Errorf("registration min_days must be positive, got %d", c.Registration.MinDays)
	}
	if c.Interview.ProgressStep < 1 || c.Interview.ProgressStep > 100 {
		return fmt.Errorf("interview progress_step must be in 1..100, got %d", c.Interview.ProgressStep)
	}
	if c.Interview.TurnTimeout <= 0 {
		return errors.New("interview turn_timeout must be positive")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm base_url is required")
	}
	if c.LLM.Model == "" {
		return errors.New("llm model is required")
	}
	return nil
}

// Window parses the registration bounds. Call Validate first; Window
// panics on malformed dates since Validate already rejects them.
func (c *Config) Window() (min, max time.Time) {
	min, err := time.Parse("2006-01-02", c.Registration.WindowMin)
	if err != nil {
		panic(fmt.Sprintf("config: window_min not validated: %v", err))
	}
	max, err = time.Parse("2006-01-02", c.Registration.WindowMax)
	if err != nil {
		panic(fmt.Sprintf("config: window_max not validated: %v", err))
	}
	return min.UTC(), max.UTC()
}
