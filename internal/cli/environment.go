package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/thruflo/woodpecker/internal/blobstore"
	"github.com/thruflo/woodpecker/internal/config"
	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

// openBlobStore opens the configured progress backend.
// It can be overridden in tests.
var openBlobStore = blobstore.Open

// logOutput receives diagnostic logs. It can be overridden in tests.
var logOutput io.Writer = os.Stderr

// environment is what every command needs: the resolved project
// directory, its configuration and a logger at the configured level.
type environment struct {
	basePath string
	cfg      *config.Config
	logger   *logging.Logger
}

func loadEnvironment() (*environment, error) {
	basePath := projectDir
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		basePath = cwd
	}

	cfg, err := config.LoadConfig(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewWriter(logOutput, level)
	logging.SetLevel(level)

	return &environment{basePath: basePath, cfg: cfg, logger: logger}, nil
}

// openProgress opens the blob store and wraps it in a ProgressStore. The
// caller closes the returned blob store.
func (e *environment) openProgress() (*state.ProgressStore, blobstore.Store, error) {
	blobCfg := e.cfg.BlobConfig(e.basePath)
	blobCfg.Logger = e.logger.With("component", "blobstore")

	blobs, err := openBlobStore(blobCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", e.cfg.Store.Backend, err)
	}
	return state.NewProgressStore(blobs, e.logger), blobs, nil
}

func (e *environment) loadCatalog() (*puzzle.Catalog, error) {
	return puzzle.LoadCatalog(e.cfg.CatalogPath(e.basePath))
}
