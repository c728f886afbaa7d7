package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBucket is a Bucket kept entirely in process memory.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	uploads map[string]*memoryUpload
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	etag        string
	contentType string
	modified    time.Time
}

type memoryUpload struct {
	key         string
	contentType string
	parts       map[int32][]byte
}

// MemoryOption configures a MemoryBucket.
type MemoryOption func(*MemoryBucket)

// WithClock overrides the time source used for LastModified.
func WithClock(now func() time.Time) MemoryOption {
	return func(b *MemoryBucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewMemoryBucket creates an empty in-memory bucket.
func NewMemoryBucket(opts ...MemoryOption) *MemoryBucket {
	b := &MemoryBucket{
		objects: make(map[string]memoryObject),
		uploads: make(map[string]*memoryUpload),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List implements Bucket.
func (b *MemoryBucket) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	// A cursor inside a rolled-up folder resumes after the whole folder.
	skip := commonPrefix(opts.Cursor, opts.Prefix, opts.Delimiter)

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if !strings.HasPrefix(key, opts.Prefix) || key <= opts.Cursor {
			continue
		}
		if skip != "" && strings.HasPrefix(key, skip) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &ListResult{
		Objects:           []ObjectInfo{},
		DelimitedPrefixes: []string{},
	}
	var lastPrefix string
	count := 0

	for _, key := range keys {
		prefix := commonPrefix(key, opts.Prefix, opts.Delimiter)
		if prefix != "" && prefix == lastPrefix {
			// Keys are sorted, so a folder's keys are contiguous.
			result.Cursor = key
			continue
		}

		if count == limit {
			result.Truncated = true
			break
		}
		count++
		result.Cursor = key

		if prefix != "" {
			lastPrefix = prefix
			result.DelimitedPrefixes = append(result.DelimitedPrefixes, prefix)
			continue
		}
		result.Objects = append(result.Objects, b.objects[key].info(key))
	}

	if !result.Truncated {
		result.Cursor = ""
	}

	return result, nil
}

// commonPrefix returns the folder key rolls up into below prefix, or "" when
// key is a direct child or no delimiter is set.
func commonPrefix(key, prefix, delimiter string) string {
	if delimiter == "" || !strings.HasPrefix(key, prefix) {
		return ""
	}
	rest := key[len(prefix):]
	i := strings.Index(rest, delimiter)
	if i < 0 {
		return ""
	}
	return prefix + rest[:i+len(delimiter)]
}

// Get implements Bucket.
func (b *MemoryBucket) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	obj, ok := b.objects[key]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}

	return &Object{
		ObjectInfo: obj.info(key),
		Body:       io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

// Put implements Bucket.
func (b *MemoryBucket) Put(ctx context.Context, key string, body io.Reader, opts PutOptions) (*ObjectInfo, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, NewBackendError("put", "Failed to upload file", err)
	}

	obj := memoryObject{
		data:        data,
		etag:        etagOf(data),
		contentType: opts.ContentType,
		modified:    b.now(),
	}

	b.mu.Lock()
	b.objects[key] = obj
	b.mu.Unlock()

	info := obj.info(key)
	return &info, nil
}

// Delete implements Bucket.
func (b *MemoryBucket) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.objects, key)
	b.mu.Unlock()
	return nil
}

// CreateMultipartUpload implements Bucket.
func (b *MemoryBucket) CreateMultipartUpload(ctx context.Context, key string, opts PutOptions) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	b.mu.Lock()
	b.uploads[id] = &memoryUpload{
		key:         key,
		contentType: opts.ContentType,
		parts:       make(map[int32][]byte),
	}
	b.mu.Unlock()

	return id, nil
}

// UploadPart implements Bucket.
func (b *MemoryBucket) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", NewBackendError("upload_part", "Failed to upload part", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return "", fmt.Errorf("%w: part %d declared %d bytes, got %d", ErrInvalidPart, partNumber, size, len(data))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	upload, ok := b.uploads[uploadID]
	if !ok || upload.key != key {
		return "", ErrUploadNotFound
	}
	upload.parts[partNumber] = data

	return etagOf(data), nil
}

// CompleteMultipartUpload implements Bucket.
func (b *MemoryBucket) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts", ErrInvalidPart)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	upload, ok := b.uploads[uploadID]
	if !ok || upload.key != key {
		return nil, ErrUploadNotFound
	}

	sorted := make([]CompletedPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PartNumber < sorted[j].PartNumber })

	var (
		buf   bytes.Buffer
		sums  []byte
		prior int32
	)
	for _, p := range sorted {
		if p.PartNumber == prior {
			return nil, fmt.Errorf("%w: duplicate part %d", ErrInvalidPart, p.PartNumber)
		}
		prior = p.PartNumber

		data, ok := upload.parts[p.PartNumber]
		if !ok || etagOf(data) != normalizeETag(p.ETag) {
			return nil, fmt.Errorf("%w: part %d", ErrInvalidPart, p.PartNumber)
		}
		buf.Write(data)
		sum := md5.Sum(data)
		sums = append(sums, sum[:]...)
	}

	total := md5.Sum(sums)
	obj := memoryObject{
		data:        buf.Bytes(),
		etag:        fmt.Sprintf(`"%s-%d"`, hex.EncodeToString(total[:]), len(sorted)),
		contentType: upload.contentType,
		modified:    b.now(),
	}
	b.objects[key] = obj
	delete(b.uploads, uploadID)

	info := obj.info(key)
	return &info, nil
}

// AbortMultipartUpload implements Bucket.
func (b *MemoryBucket) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	upload, ok := b.uploads[uploadID]
	if !ok || upload.key != key {
		return ErrUploadNotFound
	}
	delete(b.uploads, uploadID)
	return nil
}

func (o memoryObject) info(key string) ObjectInfo {
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(o.data)),
		ETag:         o.etag,
		ContentType:  o.contentType,
		LastModified: o.modified,
	}
}

func etagOf(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// normalizeETag accepts both quoted and bare ETags.
func normalizeETag(etag string) string {
	return `"` + strings.Trim(etag, `"`) + `"`
}
