// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads swapflow settings from a YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/swapflow/internal/log"
	"github.com/tombee/swapflow/internal/operation"
	swaperrors "github.com/tombee/swapflow/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// DefaultBaseURL is the public trading API endpoint.
const DefaultBaseURL = "https://api.soroswap.finance"

// Config represents the complete swapflow configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig configures the remote trading API.
type APIConfig struct {
	// BaseURL is the API endpoint.
	// Environment: SWAPFLOW_API_URL
	// Default: https://api.soroswap.finance
	BaseURL string `yaml:"base_url"`

	// APIKey is a literal key, "env:VAR" or "$secret:name". When empty the
	// soroswap/api_key secret is used.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each HTTP request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// RateLimit is the sustained request rate per second. 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the token bucket size.
	// Default: 1
	RateBurst int `yaml:"rate_burst"`

	// RetryAttempts applies to idempotent requests only.
	// Default: 3
	RetryAttempts int `yaml:"retry_attempts"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`
}

// DispatchConfig sets run defaults.
type DispatchConfig struct {
	// Network applies to items that do not name one.
	// Environment: SWAPFLOW_NETWORK
	// Default: mainnet
	Network string `yaml:"network"`

	// ContinueOnFailure records failed items instead of aborting.
	// Environment: SWAPFLOW_CONTINUE_ON_FAILURE
	ContinueOnFailure bool `yaml:"continue_on_failure"`

	// MaxConcurrency bounds in-flight items in continue-on-failure runs.
	// Environment: SWAPFLOW_MAX_CONCURRENCY
	// Default: 1
	MaxConcurrency int `yaml:"max_concurrency"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Environment: LOG_LEVEL
	// Default: info
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	// Environment: LOG_FORMAT
	// Default: json
	Format string `yaml:"format"`

	// AddSource adds source file and line information to logs.
	// Environment: LOG_SOURCE
	AddSource bool `yaml:"add_source"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       30 * time.Second,
			RateBurst:     1,
			RetryAttempts: 3,
		},
		Dispatch: DispatchConfig{
			Network:        string(operation.Mainnet),
			MaxConcurrency: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configPath, or the default config file when configPath is
// empty, then applies environment overrides and validates. A missing default
// file is not an error; a missing explicit file is.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path, explicit := configPath, configPath != ""
	if !explicit {
		if p, err := ConfigPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		err := cfg.loadFromFile(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, &swaperrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &swaperrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = defaults.API.RateBurst
	}
	if c.Dispatch.Network == "" {
		c.Dispatch.Network = defaults.Dispatch.Network
	}
	if c.Dispatch.MaxConcurrency == 0 {
		c.Dispatch.MaxConcurrency = defaults.Dispatch.MaxConcurrency
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// loadFromFile decodes a YAML file over c. Unknown keys are rejected.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// loadFromEnv applies environment overrides. Unparseable values are ignored.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("SWAPFLOW_API_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("SWAPFLOW_NETWORK"); val != "" {
		c.Dispatch.Network = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("SWAPFLOW_CONTINUE_ON_FAILURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Dispatch.ContinueOnFailure = b
		}
	}
	if val := os.Getenv("SWAPFLOW_MAX_CONCURRENCY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Dispatch.MaxConcurrency = n
		}
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url must be an http or https URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must not be negative, got %v", c.API.Timeout))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("api.rate_limit must not be negative, got %v", c.API.RateLimit))
	}
	if c.API.RateBurst < 0 {
		errs = append(errs, fmt.Sprintf("api.rate_burst must not be negative, got %d", c.API.RateBurst))
	}
	if c.API.RetryAttempts < 0 {
		errs = append(errs, fmt.Sprintf("api.retry_attempts must not be negative, got %d", c.API.RetryAttempts))
	}

	if _, err := operation.ParseNetwork(c.Dispatch.Network); err != nil {
		errs = append(errs, fmt.Sprintf("dispatch.network must be mainnet or testnet, got %q", c.Dispatch.Network))
	}
	if c.Dispatch.MaxConcurrency < 0 {
		errs = append(errs, fmt.Sprintf("dispatch.max_concurrency must not be negative, got %d", c.Dispatch.MaxConcurrency))
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be one of trace, debug, info, warn, error, got %q", c.Log.Level))
	}
	switch log.Format(c.Log.Format) {
	case log.FormatJSON, log.FormatText:
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}

// Network returns the validated default network.
func (c *Config) Network() operation.Network {
	n, _ := operation.ParseNetwork(c.Dispatch.Network)
	if n == "" {
		return operation.Mainnet
	}
	return n
}

// LoggerConfig converts the log section for internal/log.
func (c *Config) LoggerConfig() *log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = log.Format(c.Log.Format)
	cfg.AddSource = c.Log.AddSource
	return cfg
}
