package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File stores each key as a JSON blob file inside a directory.
type File struct {
	dir string
}

// NewFile creates a File store rooted at dir.
// The directory is created on first write.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	return &File{dir: dir}, nil
}

// pathFor returns the file path for key.
func (s *File) pathFor(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey replaces path separators so keys cannot escape the directory.
func sanitizeKey(key string) string {
	result := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '/', '\\':
			result[i] = '-'
		default:
			result[i] = key[i]
		}
	}
	return string(result)
}

// Get implements Store.
func (s *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, unavailable("read blob", err)
	}
	return string(data), true, nil
}

// Set implements Store. The write goes through a temp file and a rename so
// a crash never leaves a truncated blob behind.
func (s *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return unavailable("create store directory", err)
	}

	target := s.pathFor(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return unavailable("write blob", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return unavailable("replace blob", err)
	}
	return nil
}

// Delete implements Store.
func (s *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.pathFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return unavailable("delete blob", err)
	}
	return nil
}

// Close implements Store.
func (s *File) Close() error { return nil }
