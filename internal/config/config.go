package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	// Backend serving /submit_grievance, /chat and /upload_image
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// ServerConfig configures the backend connection.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	// Whole-request timeout; "0s" means requests never time out.
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn, error
	Format  string `yaml:"format"` // json, console
	File    string `yaml:"file"`
}

// UIConfig configures the interactive client.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, light, dark
}

// DefaultDir is the per-workspace directory holding config and logs.
const DefaultDir = ".grievance"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "0s",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "json",
			File:    filepath.Join(DefaultDir, "logs", "grievance.log"),
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// DefaultPath returns the default config location.
func DefaultPath() string {
	return filepath.Join(DefaultDir, "config.yaml")
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file is missing, then applies environment overrides. A .env file in the
// working directory is loaded into the environment first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRIEVANCE_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("GRIEVANCE_TIMEOUT"); v != "" {
		c.Server.Timeout = v
	}
	if v := os.Getenv("GRIEVANCE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GRIEVANCE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("GRIEVANCE_LOG_ENABLED"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			c.Logging.Enabled = true
		case "0", "false", "no", "off":
			c.Logging.Enabled = false
		}
	}
	if os.Getenv("GRIEVANCE_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
}

// GetTimeout returns the request timeout as a duration. Unparseable or
// negative values mean no timeout.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ValidThemes lists the accepted UI themes.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base_url %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server base_url %q: scheme must be http or https", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server base_url %q: missing host", c.Server.BaseURL)
	}

	if c.Server.Timeout != "" {
		if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
			return fmt.Errorf("invalid server timeout %q: %w", c.Server.Timeout, err)
		}
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return nil
}
