// Package blobstore provides simple key/value string storage backends used
// to persist training progress.
//
// A Store has no transactional semantics: Set overwrites, Delete of a
// missing key succeeds, and the last write wins.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thruflo/woodpecker/internal/logging"
)

// ErrUnavailable is wrapped by backends when the underlying storage cannot
// be reached.
var ErrUnavailable = errors.New("blob store unavailable")

// Store is a key/value blob store.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string

	// Logger receives backend diagnostics. Only Badger uses it.
	Logger *logging.Logger
}

// Open returns the Store named by cfg.Backend.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFile(cfg.Path)
	case BackendBadger:
		return OpenBadger(BadgerConfig{Path: cfg.Path, SyncWrites: true, Logger: cfg.Logger})
	case BackendSQLite:
		return OpenSQLite(cfg.Path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
