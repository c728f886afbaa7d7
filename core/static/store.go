package static

import (
	"context"
	"errors"
)

// ErrAssetNotFound is returned by asset stores when a key does not exist.
var ErrAssetNotFound = errors.New("asset not found")

// AssetStore looks up static assets by store-relative key, e.g. "css/app.css".
type AssetStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// AssetStoreFunc adapts a function to AssetStore.
type AssetStoreFunc func(ctx context.Context, key string) ([]byte, error)

func (f AssetStoreFunc) Get(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}
