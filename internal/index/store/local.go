package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	types "ClipForge/pkg"
)

// LocalStore keeps published index artifacts under one directory, typically a
// network mount shared between machines.
type LocalStore struct {
	rootPath string
}

func NewLocalStore(cfg types.LocalConfig) (*LocalStore, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required for local store")
	}
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	return &LocalStore{rootPath: cfg.BasePath}, nil
}

func (l *LocalStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.rootPath, key))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

func (l *LocalStore) Put(ctx context.Context, key string, body io.Reader) error {
	fullPath := filepath.Join(l.rootPath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}
