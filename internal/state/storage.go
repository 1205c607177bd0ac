package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thruflo/woodpecker/internal/blobstore"
	"github.com/thruflo/woodpecker/internal/logging"
)

// ProgressKey is the blob store key holding the whole progress object.
const ProgressKey = "chessPuzzleProgress"

// ErrPersistenceUnavailable is returned when progress cannot be written or
// deleted. In-memory progress remains authoritative when it occurs.
var ErrPersistenceUnavailable = errors.New("progress persistence unavailable")

// ProgressStore loads and saves Progress through a blob store.
type ProgressStore struct {
	blobs  blobstore.Store
	key    string
	logger *logging.Logger
}

// NewProgressStore creates a ProgressStore over blobs using ProgressKey.
func NewProgressStore(blobs blobstore.Store, logger *logging.Logger) *ProgressStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProgressStore{blobs: blobs, key: ProgressKey, logger: logger}
}

// Load returns the persisted progress. An absent, unreadable or malformed
// blob yields DefaultProgress; the cause is logged, never returned.
func (s *ProgressStore) Load(ctx context.Context) Progress {
	raw, found, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read progress, starting fresh", "error", err)
		return DefaultProgress()
	}
	if !found {
		return DefaultProgress()
	}

	var p Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("discarding malformed progress", "error", err)
		return DefaultProgress()
	}
	return p
}

// Save serializes p and writes it. Store failures are returned wrapped in
// ErrPersistenceUnavailable.
func (s *ProgressStore) Save(ctx context.Context, p Progress) error {
	if p.Attempts == nil {
		p.Attempts = Ledger{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := s.blobs.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Reset deletes the persisted progress. Progress values already held by
// callers are not affected.
func (s *ProgressStore) Reset(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}
