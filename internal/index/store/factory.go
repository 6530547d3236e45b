package store

import (
	"fmt"

	types "ClipForge/pkg"
)

// New builds the configured store backend. An empty type means no shared
// store; callers get nil and skip the read-through/write-back steps.
func New(cfg types.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "s3":
		return NewS3Store(cfg.S3)
	case "local":
		return NewLocalStore(cfg.Local)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Type)
	}
}
