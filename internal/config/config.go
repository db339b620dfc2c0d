package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
)

// Defaults for values that are not deployment specific.
const (
	DefaultInputFile = "modified_workflow.json"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"
)

// Config holds the n8nctl configuration.
type Config struct {
	BaseURL    string        `json:"base_url,omitempty" env:"N8N_URL"`
	APIKey     string        `json:"api_key,omitempty" env:"N8N_API_KEY"`
	WorkflowID string        `json:"workflow_id,omitempty" env:"N8N_WORKFLOW_ID"`
	InputFile  string        `json:"input_file,omitempty" env:"N8N_INPUT_FILE"`
	Timeout    time.Duration `json:"-" env:"N8N_TIMEOUT"` // see MarshalJSON
	LogLevel   string        `json:"log_level,omitempty" env:"N8NCTL_LOG_LEVEL"`
}

// configFields is Config without its methods, so the JSON hooks below can
// reuse the field tags without recursing.
type configFields Config

// MarshalJSON writes Timeout as a duration string such as "45s".
func (c Config) MarshalJSON() ([]byte, error) {
	out := struct {
		configFields
		Timeout string `json:"timeout,omitempty"`
	}{configFields: configFields(c)}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads Timeout from a duration string. Fields absent from
// data keep their current values.
func (c *Config) UnmarshalJSON(data []byte) error {
	in := struct {
		*configFields
		Timeout string `json:"timeout"`
	}{configFields: (*configFields)(c)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Timeout != "" {
		d, err := time.ParseDuration(in.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", in.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Default returns a Config with built-in defaults applied.
func Default() *Config {
	return &Config{
		InputFile: DefaultInputFile,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "n8nctl", "config.json"), nil
}

// Load resolves the configuration from the file at path (if any) and then
// the environment. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the config from the specified path on top of the defaults.
// If the file doesn't exist, returns the defaults (not an error).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment settings: %w", err)
	}
	return nil
}

// SaveTo writes the config to the specified path. The API key is only
// written when includeKey is set.
func (c *Config) SaveTo(path string, includeKey bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := *c
	if !includeKey {
		out.APIKey = ""
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks that the fields needed to address a workflow are present.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required (--url or N8N_URL)"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL))
	}
	if c.WorkflowID == "" {
		errs = append(errs, errors.New("workflow ID is required (--workflow or N8N_WORKFLOW_ID)"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}
