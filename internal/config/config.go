// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// LLM
	Provider      string `json:"provider,omitempty" yaml:"provider,omitempty"`             // gemini, anthropic or openrouter
	APIKey        string `json:"api_key,omitempty" yaml:"api_key,omitempty"`               // Key for the selected provider
	Model         string `json:"model,omitempty" yaml:"model,omitempty"`                   // Overrides every tier's model
	CallTimeout   string `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`     // Per LLM call, e.g. "60s"
	Concurrency   int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`       // Max sections rewritten at once (0 = unbounded)
	OpenRouterURL string `json:"openrouter_url,omitempty" yaml:"openrouter_url,omitempty"` // Alternate chat-completions endpoint

	// Storage
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`     // Redis host:port for the analysis cache
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	CacheTTL      string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"` // e.g. "24h"

	// Job posting fetch: off, http or browser (http with a headless Chrome fallback)
	JobFetch string `json:"job_fetch,omitempty" yaml:"job_fetch,omitempty"`
	// Allow job_url to reach loopback and private addresses, e.g. an intranet careers site
	JobFetchPrivateNetworks bool `json:"job_fetch_private_networks,omitempty" yaml:"job_fetch_private_networks,omitempty"`

	// Server
	Addr           string   `json:"addr,omitempty" yaml:"addr,omitempty"` // Listen address, e.g. ":8080"
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or pretty

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print match results and improvement reports
}

var validProviders = map[string]bool{"": true, "gemini": true, "anthropic": true, "openrouter": true}

var validJobFetch = map[string]bool{"": true, "off": true, "http": true, "browser": true}

var validLevels = map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Set variables win over file values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("LLM_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := getenv(c.apiKeyVar()); v != "" {
		c.APIKey = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("LLM_CALL_TIMEOUT"); v != "" {
		c.CallTimeout = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := getenv("JOB_FETCH"); v != "" {
		c.JobFetch = strings.ToLower(v)
	}
	if v := getenv("JOB_FETCH_PRIVATE_NETWORKS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.JobFetchPrivateNetworks = b
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv("ADDR"); v != "" {
		c.Addr = v
	}
}

// apiKeyVar names the environment variable holding the key for the configured provider
func (c *Config) apiKeyVar() string {
	switch c.Provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if !validProviders[c.Provider] {
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("config error: unknown log_level %q", c.LogLevel)
	}
	if !validJobFetch[c.JobFetch] {
		return fmt.Errorf("config error: 'job_fetch' must be off, http or browser")
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("config error: 'log_format' must be json or pretty")
	}

	// Validate numeric ranges
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}

	if _, err := c.CallTimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.CacheTTLDuration(); err != nil {
		return err
	}

	if c.OpenRouterURL != "" && c.Provider != "openrouter" {
		return fmt.Errorf("config error: 'openrouter_url' requires provider openrouter")
	}

	return nil
}

// CallTimeoutDuration parses CallTimeout. Zero means use the package default.
func (c *Config) CallTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("call_timeout", c.CallTimeout)
}

// CacheTTLDuration parses CacheTTL. Zero means use the cache default.
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	return parsePositiveDuration("cache_ttl", c.CacheTTL)
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid '%s': %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config error: '%s' must be positive", field)
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.CallTimeout == "" {
		result.CallTimeout = defaults.CallTimeout
	}
	if result.OpenRouterURL == "" {
		result.OpenRouterURL = defaults.OpenRouterURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.JobFetch == "" {
		result.JobFetch = defaults.JobFetch
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the values used when neither file, environment nor flags set a field
func Defaults() Config {
	return Config{
		Provider:       "gemini",
		CallTimeout:    "60s",
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "pretty",
		CacheTTL:       "24h",
		JobFetch:       "http",
		AllowedOrigins: []string{"*"},
	}
}
