package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds values that may be supplied through the environment.
type Env struct {
	BaseURL   string `env:"POGO_BASE_URL"`
	Provider  string `env:"POGO_AUTH_PROVIDER"`
	OutputDir string `env:"POGO_OUTPUT_DIR"`
	Password  string `env:"POGO_PASSWORD"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyEnv overlays non-empty environment values onto the loaded config.
// The password is a credential and is read separately by the caller.
func (c *Config) applyEnv() error {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return err
	}
	if e.BaseURL != "" {
		c.Service.BaseURL = e.BaseURL
	}
	if e.Provider != "" {
		c.Auth.Provider = e.Provider
	}
	if e.OutputDir != "" {
		c.Report.OutputDir = e.OutputDir
	}
	return nil
}
