package storage

import (
	"context"
	"io"
	"time"
)

// DefaultDelimiter separates "folders" in object keys.
const DefaultDelimiter = "/"

// MaxListLimit is the largest page a single List call returns.
const MaxListLimit = 1000

// Bucket is the backing object store contract consumed by the file manager.
// Implementations must be safe for concurrent use; callers do not coordinate
// access to the same key.
type Bucket interface {
	// List returns objects under opts.Prefix. When opts.Delimiter is set, keys
	// containing the delimiter after the prefix are rolled up into DelimitedPrefixes.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Get returns the object with its body. Returns ErrObjectNotFound when the key is absent.
	// The caller must close Object.Body.
	Get(ctx context.Context, key string) (*Object, error)

	// Put stores the content under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) (*ObjectInfo, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// CreateMultipartUpload starts a multipart session and returns its upload ID.
	CreateMultipartUpload(ctx context.Context, key string, opts PutOptions) (string, error)

	// UploadPart stores one numbered part of a multipart session and returns its ETag.
	UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (string, error)

	// CompleteMultipartUpload assembles the listed parts into the final object.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) (*ObjectInfo, error)

	// AbortMultipartUpload discards a multipart session and its parts.
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}

// ObjectInfo describes a stored object without its content.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"uploaded"`
}

// Object is an ObjectInfo with a readable body.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// ListOptions controls a List call.
type ListOptions struct {
	Prefix    string
	Delimiter string
	Limit     int // 0 means MaxListLimit
	Cursor    string
}

// ListResult is a single page of listing results.
type ListResult struct {
	Objects           []ObjectInfo `json:"objects"`
	DelimitedPrefixes []string     `json:"delimitedPrefixes"`
	Truncated         bool         `json:"truncated"`
	Cursor            string       `json:"cursor,omitempty"`
}

// PutOptions carries optional object metadata.
type PutOptions struct {
	ContentType string
}

// CompletedPart identifies an uploaded part when completing a multipart session.
type CompletedPart struct {
	PartNumber int32  `json:"partNumber"`
	ETag       string `json:"etag"`
}
