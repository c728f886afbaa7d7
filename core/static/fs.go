package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// FSStore serves assets from an fs.FS such as embed.FS or os.DirFS.
// Directories are never served.
type FSStore struct {
	fsys fs.FS
}

// FSOption configures an FSStore.
type FSOption func(*fsConfig)

type fsConfig struct {
	subPath string
}

// WithSubFS serves files from a subdirectory within the fs.FS.
// The path parameter should use forward slashes regardless of OS.
func WithSubFS(path string) FSOption {
	return func(c *fsConfig) {
		c.subPath = path
	}
}

// NewFSStore creates an asset store over fsys.
// Returns an error when the sub-path is invalid or the root is not accessible.
func NewFSStore(fsys fs.FS, opts ...FSOption) (*FSStore, error) {
	cfg := &fsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			return nil, fmt.Errorf("static: invalid sub-path %q: %w", cfg.subPath, err)
		}
		fsys = sub
	}

	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("static: filesystem is not accessible: %w", err)
	}

	return &FSStore{fsys: fsys}, nil
}

// Get implements AssetStore.
func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(key) {
		return nil, ErrAssetNotFound
	}

	info, err := fs.Stat(s.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrAssetNotFound
	}

	return fs.ReadFile(s.fsys, key)
}
