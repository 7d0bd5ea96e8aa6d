// Package file implements a KeyValue backend that stores each key in its own file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"todolist/backend"
)

func init() {
	backend.RegisterWithPriority("file", func(path string) (backend.KeyValue, error) {
		return New(Config{Dir: path})
	}, 10)
}

// keyPattern restricts keys to names that are safe as file names
var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Config holds file backend configuration
type Config struct {
	Dir string // Directory holding one file per key
}

// Backend implements backend.KeyValue for file-based storage
type Backend struct {
	config Config
	dir    string // Resolved absolute path
}

// New creates a new file backend
func New(cfg Config) (*Backend, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "todolist-data"
	}

	// Resolve relative paths
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	return &Backend{
		config: cfg,
		dir:    dir,
	}, nil
}

// Close closes the backend
func (b *Backend) Close() error {
	return nil
}

// Get reads the file stored for key
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := b.pathFor(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set atomically replaces the file stored for key
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	path, err := b.pathFor(key)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a sibling temp file first so readers never see a torn value
	tmp := filepath.Join(b.dir, "."+key+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Delete removes the file stored for key
func (b *Backend) Delete(ctx context.Context, key string) error {
	path, err := b.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// pathFor validates key and maps it to its file path
func (b *Backend) pathFor(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	return filepath.Join(b.dir, key), nil
}

// Verify interface compliance at compile time
var _ backend.KeyValue = (*Backend)(nil)
