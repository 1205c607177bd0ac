package testutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/woodpecker/internal/blobstore"
	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/state"
)

// SetupTestDir creates a temporary directory with a .woodpecker directory
// holding a config.yaml, and writes SamplePuzzles to puzzles.json at the
// root. The config uses the file backend under .woodpecker/data and a zero
// reply delay. The directory is automatically cleaned up when the test
// completes.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	configDir := filepath.Join(tmpDir, ".woodpecker")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `catalog: puzzles.json
reply_delay_ms: 0
log_level: error
store:
  backend: file
  path: .woodpecker/data
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644))

	WriteTestFile(t, tmpDir, "puzzles.json", MustMarshalJSON(t, SamplePuzzles()))
	return tmpDir
}

// NewMemoryProgressStore returns a ProgressStore backed by a fresh in-memory
// blob store, plus the blob store so tests can inspect or break it.
func NewMemoryProgressStore(t *testing.T) (*state.ProgressStore, *blobstore.Memory) {
	t.Helper()
	blobs := blobstore.NewMemory()
	return state.NewProgressStore(blobs, DiscardLogger()), blobs
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *logging.Logger {
	return logging.NewWriter(io.Discard, logging.LevelError+1)
}

// MustMarshalJSON marshals a value to JSON, failing the test on error.
// Uses indented format for readability.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return data
}

// MustUnmarshalJSON unmarshals JSON data into v, failing the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

// WriteTestFile writes content to a file in the test directory.
// Creates parent directories as needed.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) {
	t.Helper()
	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, content, 0644))
}
