package static

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dmitrymomot/bucketdesk/core/storage"
)

// BucketStore serves assets stored under a key prefix inside a storage bucket.
type BucketStore struct {
	bucket storage.Bucket
	prefix string
}

// NewBucketStore creates an asset store reading keys under prefix.
func NewBucketStore(bucket storage.Bucket, prefix string) *BucketStore {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BucketStore{bucket: bucket, prefix: prefix}
}

// Get implements AssetStore.
func (s *BucketStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.bucket.Get(ctx, s.prefix+key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	defer obj.Body.Close()

	return io.ReadAll(obj.Body)
}
