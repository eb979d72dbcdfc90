package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/security-panel/internal/logger"
)

// Config holds the settings of the security panel.
type Config struct {
	// BackendURL is the base URL of the alarm controller (e.g. http://localhost:8000).
	BackendURL string `yaml:"backend_url"`
	// Timeout bounds every backend request.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
	// MetricsAddress enables the Prometheus endpoint when not empty (e.g. :9100).
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for panel settings.
	DefaultConfigFilename = "security-panel-settings.yaml"

	// DefaultTimeout is the default duration for backend requests.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SECURITY_PANEL"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBackendURLRequired is returned when backend URL is missing.
	errBackendURLRequired = errors.New("backend URL must be provided")
	// errUnsupportedScheme is returned for backend URLs that are not http(s).
	errUnsupportedScheme = errors.New("backend URL scheme must be http or https")
	// errUnknownLogLevel is returned for unparsable log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Option overrides a loaded value.
type Option func(*Config)

// WithBackendURL overrides the backend URL when url is not empty.
func WithBackendURL(backendURL string) Option {
	return func(c *Config) {
		if backendURL != "" {
			c.BackendURL = backendURL
		}
	}
}

// WithLogLevel overrides the log level when level is not empty.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		if level != "" {
			c.LogLevel = level
		}
	}
}

// WithMetricsAddress overrides the metrics listen address when address is not empty.
func WithMetricsAddress(address string) Option {
	return func(c *Config) {
		if address != "" {
			c.MetricsAddress = address
		}
	}
}

// Load reads configuration from the provided path, applies environment
// overrides and options, and validates the result.
// A missing file is tolerated only for the default filename.
func Load(path string, opts ...Option) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename:
		// Settings may come entirely from the environment and flags.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = applyEnv(&cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting
// and fills in defaults.
func Validate(settings *Config) error {
	if settings.BackendURL == "" {
		return errBackendURLRequired
	}

	parsed, err := url.ParseRequestURI(settings.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: %q", errUnsupportedScheme, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid backend URL: missing host in %q", settings.BackendURL)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if settings.MetricsAddress == "" {
		return nil
	}

	if _, _, err = net.SplitHostPort(settings.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics address: %w", err)
	}

	return nil
}

// applyEnv overrides settings from SECURITY_PANEL_* environment variables.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if s := strings.TrimSpace(v.GetString("backend_url")); s != "" {
		cfg.BackendURL = s
	}

	if s := strings.TrimSpace(v.GetString("timeout")); s != "" {
		timeout, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse %s_TIMEOUT: %w", EnvPrefix, err)
		}

		cfg.Timeout = timeout
	}

	if s := strings.TrimSpace(v.GetString("log_level")); s != "" {
		cfg.LogLevel = s
	}

	if s := strings.TrimSpace(v.GetString("metrics_addr")); s != "" {
		cfg.MetricsAddress = s
	}

	return nil
}
