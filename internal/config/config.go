// Package config loads the taskpulse YAML configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Store       StoreConfig       `yaml:"store"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Remote      RemoteConfig      `yaml:"remote"`
	Goals       GoalsConfig       `yaml:"goals"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Listen is the address the daemon binds to.
	Listen string `yaml:"listen"`
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins  []string      `yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SuggestionsConfig caps the suggestions returned per type.
type SuggestionsConfig struct {
	CategoryLimit int `yaml:"category_limit"`
	DueDateLimit  int `yaml:"due_date_limit"`
	PriorityLimit int `yaml:"priority_limit"`
}

// RemoteConfig configures the optional remote suggestion service.
type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// APIKey is normally supplied through the environment.
	APIKey            string        `yaml:"api_key,omitempty"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// GoalsConfig configures the background goal refresher.
type GoalsConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultDir returns ~/.taskpulse, or .taskpulse when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskpulse"
	}
	return filepath.Join(home, ".taskpulse")
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:       "127.0.0.1:7480",
			CORSOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join(DefaultDir(), "taskpulse.db"),
		},
		Suggestions: SuggestionsConfig{
			CategoryLimit: 3,
			DueDateLimit:  2,
			PriorityLimit: 2,
		},
		Remote: RemoteConfig{
			Enabled:           true,
			BaseURL:           "https://api.openai.com/v1",
			Model:             "gpt-4o-mini",
			Timeout:           5 * time.Second,
			RequestsPerMinute: 30,
		},
		Goals: GoalsConfig{
			RefreshInterval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromHome loads configuration from ~/.taskpulse/config.yaml.
func LoadConfigFromHome() (*Config, error) {
	return LoadConfig(DefaultPath())
}

// SaveConfig saves configuration to a YAML file, creating parent directories if needed.
// The API key is never written.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := *cfg
	out.Remote.APIKey = ""

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TASKPULSE_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := getenv("TASKPULSE_DB"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("TASKPULSE_REMOTE_API_KEY"); v != "" {
		c.Remote.APIKey = v
	} else if v := getenv("OPENAI_API_KEY"); v != "" && c.Remote.APIKey == "" {
		c.Remote.APIKey = v
	}
	if v := getenv("TASKPULSE_REMOTE_BASE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := getenv("TASKPULSE_REMOTE_MODEL"); v != "" {
		c.Remote.Model = v
	}
	if v := getenv("TASKPULSE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("server.listen is required")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}

	s := c.Suggestions
	if s.CategoryLimit < 1 || s.DueDateLimit < 1 || s.PriorityLimit < 1 {
		return fmt.Errorf("suggestion limits must be at least 1")
	}

	if c.Remote.Enabled {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid remote.base_url %q", c.Remote.BaseURL)
		}
		if c.Remote.Timeout <= 0 {
			return fmt.Errorf("remote.timeout must be positive")
		}
	}
	if c.Remote.RequestsPerMinute < 0 {
		return fmt.Errorf("remote.requests_per_minute cannot be negative")
	}

	if c.Goals.RefreshInterval < time.Second {
		return fmt.Errorf("goals.refresh_interval must be at least 1s")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be: debug, info, warn, or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q, must be: json or console", c.Log.Format)
	}

	return nil
}

// RemoteAvailable reports whether the remote service is enabled and has a key.
func (c *Config) RemoteAvailable() bool {
	return c.Remote.Enabled && c.Remote.APIKey != ""
}
