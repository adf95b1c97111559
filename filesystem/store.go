// Package filesystem provides a file system blob storage backend.
// Writes are atomic: content goes to a temp file first and is renamed
// into place once fully flushed.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kmehta/imagebin"
)

// Store keeps image blobs under a sandboxed directory root. Storage keys
// map directly to relative file paths, so the owner prefix in a key
// becomes a subdirectory.
type Store struct {
	root *os.Root
}

// NewStore creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Put atomically writes data under key using a temp file and rename,
// creating intermediate directories as needed.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(t.Name()); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := filepath.Dir(key)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return nil
}

// Get reads the blob stored under key. The content type is derived from
// the key's extension since the filesystem keeps no metadata of its own.
// Returns imagebin.ErrBlobNotFound if the file does not exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", imagebin.ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "key", key, "err", closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return data, imagebin.ContentTypeForFilename(key), nil
}

// Delete removes the blob stored under key. Returns
// imagebin.ErrBlobNotFound if the file does not exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return imagebin.ErrBlobNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
