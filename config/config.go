// Package config provides configuration loading and access for the stats tool.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tool configuration parameters.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Auth    AuthConfig    `yaml:"auth"`
	Report  ReportConfig  `yaml:"report"`
	Stats   StatsConfig   `yaml:"stats"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ServiceConfig holds the game service endpoint settings.
type ServiceConfig struct {
	BaseURL       string  `yaml:"base_url"`
	InventoryPath string  `yaml:"inventory_path"`
	TimeoutSec    float64 `yaml:"timeout_sec"` // Per-request HTTP timeout
}

// AuthConfig holds authentication provider settings.
type AuthConfig struct {
	Provider  string                    `yaml:"provider"` // Default provider when --provider is not given
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one OAuth2 identity provider.
type ProviderConfig struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Filename  string `yaml:"filename"` // {username} is replaced with the login name
}

// StatsConfig holds engine parameters.
type StatsConfig struct {
	ScorePerEvolution int      `yaml:"score_per_evolution"`
	Exclude           []string `yaml:"exclude"` // Species names never counted as evolvable
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Timeout time.Duration // Service.TimeoutSec as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Environment overrides
// are applied last.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Provider returns the settings for the named provider.
func (c *Config) Provider(name string) (ProviderConfig, error) {
	p, ok := c.Auth.Providers[strings.ToLower(name)]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("unknown auth provider %q", name)
	}
	return p, nil
}

// ReportFilename returns the report file name for a user.
func (c *Config) ReportFilename(username string) string {
	return strings.ReplaceAll(c.Report.Filename, "{username}", username)
}

func (c *Config) validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url is required")
	}
	if c.Stats.ScorePerEvolution <= 0 {
		return fmt.Errorf("stats.score_per_evolution must be positive, got %d", c.Stats.ScorePerEvolution)
	}
	if !strings.Contains(c.Report.Filename, "{username}") {
		return fmt.Errorf("report.filename must contain {username}, got %q", c.Report.Filename)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	timeout := c.Service.TimeoutSec
	if timeout <= 0 {
		timeout = 30
	}
	c.Derived.Timeout = time.Duration(timeout * float64(time.Second))

	// Provider names are matched case-insensitively
	providers := make(map[string]ProviderConfig, len(c.Auth.Providers))
	for name, p := range c.Auth.Providers {
		providers[strings.ToLower(name)] = p
	}
	c.Auth.Providers = providers
	c.Auth.Provider = strings.ToLower(c.Auth.Provider)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
