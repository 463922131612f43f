package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8087, cfg.Server.Port)
	assert.Equal(t, "2025-12-01", cfg.Registration.WindowMin)
	assert.Equal(t, "2026-02-28", cfg.Registration.WindowMax)
	assert.Equal(t, 14, cfg.Registration.MinDays)
	assert.Equal(t, 20, cfg.Interview.ProgressStep)
	assert.Equal(t, 60*time.Second, cfg.Interview.TurnTimeout)

	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"malformed window min", func(c *Config) { c.Registration.WindowMin = "Dec 1 2025" }},
		{"malformed window max", func(c *Config) { c.Registration.WindowMax = "soon" }},
		{"inverted window", func(c *Config) {
			c.Registration.WindowMin = "2026-02-28"
			c.Registration.WindowMax = "2025-12-01"
		}},
		{"zero min days", func(c *Config) { c.Registration.MinDays = 0 }},
		{"zero progress step", func(c *Config) { c.Interview.ProgressStep = 0 }},
		{"oversized progress step", func(c *Config) { c.Interview.ProgressStep = 150 }},
		{"zero turn timeout", func(c *Config) { c.Interview.TurnTimeout = 0 }},
		{"empty llm base url", func(c *Config) { c.LLM.BaseURL = "" }},
		{"empty llm model", func(c *Config) { c.LLM.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWindow(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	min, max := cfg.Window()
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), min)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), max)
}
