package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/thruflo/woodpecker/internal/blobstore"
	"github.com/thruflo/woodpecker/internal/logging"
)

// Default values for Config.
const (
	DefaultCatalog      = "puzzles.json"
	DefaultReplyDelayMS = 500
	DefaultLogLevel     = "warn"
	DefaultStoreBackend = blobstore.BackendFile
)

// DefaultStorePath is the store location relative to the project root.
var DefaultStorePath = filepath.Join(DirName, "data")

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Catalog:      DefaultCatalog,
		ReplyDelayMS: DefaultReplyDelayMS,
		LogLevel:     DefaultLogLevel,
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			Path:    DefaultStorePath,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads .woodpecker/config.yaml from the given base path, applies
// environment overrides and validates the result. A missing file yields
// the defaults; fields absent from the file keep their defaults.
func LoadConfig(basePath string) (*Config, error) {
	return load(basePath, env.Options{})
}

// LoadConfigWithEnv is LoadConfig with an explicit environment instead of
// the process environment.
func LoadConfigWithEnv(basePath string, environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(basePath, env.Options{Environment: environ})
}

func load(basePath string, opts env.Options) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(Dir(basePath), "config.yaml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Catalog) == "" {
		return ValidationError{Field: "catalog", Message: "required field is empty"}
	}
	if cfg.ReplyDelayMS < 0 {
		return ValidationError{Field: "reply_delay_ms", Message: "must not be negative"}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	if cfg.MetricsAddr != "" && !strings.Contains(cfg.MetricsAddr, ":") {
		return ValidationError{Field: "metrics_addr", Message: "must be host:port"}
	}
	return ValidateStoreConfig(&cfg.Store)
}

// ValidateStoreConfig checks the store backend and path.
func ValidateStoreConfig(cfg *StoreConfig) error {
	switch strings.ToLower(cfg.Backend) {
	case blobstore.BackendMemory:
		return nil
	case blobstore.BackendFile, blobstore.BackendBadger, blobstore.BackendSQLite:
	default:
		return ValidationError{Field: "store.backend", Message: "must be one of file, badger, sqlite, memory"}
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return ValidationError{Field: "store.path", Message: "required for " + cfg.Backend + " backend"}
	}
	return nil
}

// WriteDefault writes the default config.yaml under basePath unless one
// already exists. Returns the path written or found.
func WriteDefault(basePath string) (string, error) {
	dir := Dir(basePath)
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
