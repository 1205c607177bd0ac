package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(Dir(tmpDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(Dir(tmpDir), "config.yaml"), []byte(content), 0o644))
	return tmpDir
}

func TestLoadConfig_Default(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigWithEnv(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.ReplyDelay())
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, `catalog: data/woodpecker.json
reply_delay_ms: 250
log_level: debug
metrics_addr: 127.0.0.1:9464
store:
  backend: sqlite
  path: progress.db
`)

	cfg, err := LoadConfigWithEnv(tmpDir, nil)
	require.NoError(t, err)

	assert.Equal(t, "data/woodpecker.json", cfg.Catalog)
	assert.Equal(t, 250*time.Millisecond, cfg.ReplyDelay())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
	assert.Equal(t, StoreConfig{Backend: "sqlite", Path: "progress.db"}, cfg.Store)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	t.Parallel()

	// Only set reply_delay_ms, rest should keep defaults
	tmpDir := writeConfig(t, "reply_delay_ms: 0\n")

	cfg, err := LoadConfigWithEnv(tmpDir, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.ReplyDelayMS)
	assert.Equal(t, DefaultCatalog, cfg.Catalog)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultStoreBackend, cfg.Store.Backend)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, `store: [`)

	_, err := LoadConfigWithEnv(tmpDir, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, `catalog: file.json
store:
  backend: file
  path: .woodpecker/data
`)

	cfg, err := LoadConfigWithEnv(tmpDir, map[string]string{
		"WOODPECKER_CATALOG":        "env.json",
		"WOODPECKER_STORE_BACKEND":  "badger",
		"WOODPECKER_STORE_PATH":     "/var/lib/woodpecker",
		"WOODPECKER_REPLY_DELAY_MS": "1200",
		"WOODPECKER_LOG_LEVEL":      "info",
		"WOODPECKER_METRICS_ADDR":   ":9464",
	})
	require.NoError(t, err)

	assert.Equal(t, "env.json", cfg.Catalog)
	assert.Equal(t, StoreConfig{Backend: "badger", Path: "/var/lib/woodpecker"}, cfg.Store)
	assert.Equal(t, 1200*time.Millisecond, cfg.ReplyDelay())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":9464", cfg.MetricsAddr)
}

func TestLoadConfig_EnvLeavesUnsetFields(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, "catalog: file.json\n")

	cfg, err := LoadConfigWithEnv(tmpDir, map[string]string{"WOODPECKER_LOG_LEVEL": "error"})
	require.NoError(t, err)
	assert.Equal(t, "file.json", cfg.Catalog)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_BadEnvValue(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigWithEnv(t.TempDir(), map[string]string{"WOODPECKER_REPLY_DELAY_MS": "soon"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse environment")
}

func TestLoadConfig_ProcessEnvironment(t *testing.T) {
	t.Setenv("WOODPECKER_CATALOG", "from-env.json")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Catalog)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "empty catalog", content: "catalog: \"\"\n", field: "catalog"},
		{name: "negative delay", content: "reply_delay_ms: -1\n", field: "reply_delay_ms"},
		{name: "unknown log level", content: "log_level: loud\n", field: "log_level"},
		{name: "metrics addr without port", content: "metrics_addr: localhost\n", field: "metrics_addr"},
		{name: "unknown backend", content: "store:\n  backend: redis\n", field: "store.backend"},
		{name: "missing path", content: "store:\n  backend: badger\n  path: \"\"\n", field: "store.path"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := writeConfig(t, tt.content)
			_, err := LoadConfigWithEnv(tmpDir, nil)
			require.Error(t, err)

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateStoreConfig_MemoryNeedsNoPath(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateStoreConfig(&StoreConfig{Backend: "memory"}))
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path, err := WriteDefault(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".woodpecker", "config.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, DefaultConfig(), cfg)

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("catalog: mine.json\n"), 0o644))
	_, err = WriteDefault(tmpDir)
	require.NoError(t, err)
	loaded, err := LoadConfigWithEnv(tmpDir, nil)
	require.NoError(t, err)
	assert.Equal(t, "mine.json", loaded.Catalog)
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := ValidationError{Field: "store.backend", Message: "must be one of file, badger, sqlite, memory"}
	assert.Equal(t, "validation error: store.backend: must be one of file, badger, sqlite, memory", err.Error())
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidationError(ValidationError{Field: "catalog", Message: "x"}))
	assert.False(t, IsValidationError(os.ErrNotExist))
}
