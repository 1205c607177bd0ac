package config

import (
	"path/filepath"
	"time"

	"github.com/thruflo/woodpecker/internal/blobstore"
)

// DirName is the per-project configuration directory.
const DirName = ".woodpecker"

// StoreConfig selects where progress is persisted.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"WOODPECKER_STORE_BACKEND"`
	Path    string `yaml:"path" env:"WOODPECKER_STORE_PATH"`
}

// Config represents the .woodpecker/config.yaml file. Every field can be
// overridden from the environment.
type Config struct {
	Catalog      string      `yaml:"catalog" env:"WOODPECKER_CATALOG"`
	ReplyDelayMS int         `yaml:"reply_delay_ms" env:"WOODPECKER_REPLY_DELAY_MS"`
	LogLevel     string      `yaml:"log_level" env:"WOODPECKER_LOG_LEVEL"`
	MetricsAddr  string      `yaml:"metrics_addr,omitempty" env:"WOODPECKER_METRICS_ADDR"`
	Store        StoreConfig `yaml:"store"`
}

// ReplyDelay returns the automated reply delay as a duration.
func (c Config) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMS) * time.Millisecond
}

// CatalogPath resolves the catalog file against basePath.
func (c Config) CatalogPath(basePath string) string {
	return resolve(basePath, c.Catalog)
}

// BlobConfig returns the blob store configuration with the store path
// resolved against basePath.
func (c Config) BlobConfig(basePath string) blobstore.Config {
	return blobstore.Config{
		Backend: c.Store.Backend,
		Path:    resolve(basePath, c.Store.Path),
	}
}

// Dir returns the configuration directory under basePath.
func Dir(basePath string) string {
	return filepath.Join(basePath, DirName)
}

func resolve(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}
