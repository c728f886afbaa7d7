package filemanager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
	"github.com/dmitrymomot/bucketdesk/core/storage"
)

// SearchLimit bounds how many keys a search scans.
const SearchLimit = storage.MaxListLimit

// SearchResult is the payload of a key search.
type SearchResult struct {
	Objects           []storage.ObjectInfo `json:"objects"`
	DelimitedPrefixes []string             `json:"delimitedPrefixes"`
}

// Service exposes the object operations of the file manager over a bucket.
// Storage failures are translated to client-facing errors: missing objects and
// uploads become 404s, bad parts 400s, anything else a BackendError whose
// message names the failed operation.
type Service struct {
	bucket storage.Bucket
	logger *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(bucket storage.Bucket, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		bucket: bucket,
		logger: log.With(logger.Component("filemanager")),
	}
}

// List returns one level of the folder tree under prefix.
func (s *Service) List(ctx context.Context, prefix, cursor string) (*storage.ListResult, error) {
	res, err := s.bucket.List(ctx, storage.ListOptions{
		Prefix:    prefix,
		Delimiter: storage.DefaultDelimiter,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, s.fail(ctx, "list", "Failed to list files", err, logger.Prefix(prefix))
	}
	s.logger.InfoContext(ctx, "listed objects", logger.Prefix(prefix), logger.Count("objects", len(res.Objects)))
	return res, nil
}

// Folders returns the top-level folder prefixes.
func (s *Service) Folders(ctx context.Context) ([]string, error) {
	res, err := s.bucket.List(ctx, storage.ListOptions{Delimiter: storage.DefaultDelimiter})
	if err != nil {
		return nil, s.fail(ctx, "folders", "Failed to list folders", err)
	}
	s.logger.InfoContext(ctx, "listed folders", logger.Count("folders", len(res.DelimitedPrefixes)))
	return res.DelimitedPrefixes, nil
}

// Search scans up to SearchLimit keys under prefix and keeps those that
// contain query, ignoring case.
func (s *Service) Search(ctx context.Context, query, prefix string) (*SearchResult, error) {
	res, err := s.bucket.List(ctx, storage.ListOptions{Prefix: prefix, Limit: SearchLimit})
	if err != nil {
		return nil, s.fail(ctx, "search", "Failed to search files", err, logger.Prefix(prefix))
	}

	needle := strings.ToLower(query)
	matched := make([]storage.ObjectInfo, 0, len(res.Objects))
	for _, obj := range res.Objects {
		if strings.Contains(strings.ToLower(obj.Key), needle) {
			matched = append(matched, obj)
		}
	}

	s.logger.InfoContext(ctx, "searched objects",
		slog.String("query", query),
		logger.Prefix(prefix),
		logger.Count("scanned", len(res.Objects)),
		logger.Count("matched", len(matched)),
	)
	return &SearchResult{Objects: matched, DelimitedPrefixes: res.DelimitedPrefixes}, nil
}

// Ping checks that the bucket answers a minimal listing.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.bucket.List(ctx, storage.ListOptions{Limit: 1})
	return err
}

// Get opens the object. The caller must close the body.
func (s *Service) Get(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.bucket.Get(ctx, key)
	if err != nil {
		return nil, s.fail(ctx, "get", "Failed to get file", err, logger.ObjectKey(key))
	}
	return obj, nil
}

// Upload stores body under key.
func (s *Service) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*storage.ObjectInfo, error) {
	info, err := s.bucket.Put(ctx, key, body, storage.PutOptions{ContentType: contentType})
	if err != nil {
		return nil, s.fail(ctx, "upload", "Failed to upload file", err, logger.ObjectKey(key))
	}
	s.logger.InfoContext(ctx, "uploaded object", logger.ObjectKey(key), slog.Int64("size", info.Size))
	return info, nil
}

// Delete removes the object.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return s.fail(ctx, "delete", "Failed to delete file", err, logger.ObjectKey(key))
	}
	s.logger.InfoContext(ctx, "deleted object", logger.ObjectKey(key))
	return nil
}

// InitMultipart starts a multipart upload and returns its ID.
func (s *Service) InitMultipart(ctx context.Context, key, contentType string) (string, error) {
	id, err := s.bucket.CreateMultipartUpload(ctx, key, storage.PutOptions{ContentType: contentType})
	if err != nil {
		return "", s.fail(ctx, "multipart init", "Failed to start upload", err, logger.ObjectKey(key))
	}
	s.logger.InfoContext(ctx, "multipart upload started", logger.ObjectKey(key), logger.UploadID(id))
	return id, nil
}

// UploadPart stores one part. size is -1 when unknown.
func (s *Service) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (string, error) {
	etag, err := s.bucket.UploadPart(ctx, key, uploadID, partNumber, body, size)
	if err != nil {
		return "", s.fail(ctx, "multipart upload", "Failed to upload part", err,
			logger.ObjectKey(key), logger.UploadID(uploadID), slog.Int("part", int(partNumber)))
	}
	return etag, nil
}

// CompleteMultipart assembles the uploaded parts.
func (s *Service) CompleteMultipart(ctx context.Context, key, uploadID string, parts []storage.CompletedPart) (*storage.ObjectInfo, error) {
	info, err := s.bucket.CompleteMultipartUpload(ctx, key, uploadID, parts)
	if err != nil {
		return nil, s.fail(ctx, "multipart complete", "Failed to complete upload", err,
			logger.ObjectKey(key), logger.UploadID(uploadID))
	}
	s.logger.InfoContext(ctx, "multipart upload completed",
		logger.ObjectKey(key), logger.UploadID(uploadID), logger.Count("parts", len(parts)))
	return info, nil
}

// AbortMultipart discards an unfinished upload.
func (s *Service) AbortMultipart(ctx context.Context, key, uploadID string) error {
	if err := s.bucket.AbortMultipartUpload(ctx, key, uploadID); err != nil {
		return s.fail(ctx, "multipart abort", "Failed to abort upload", err,
			logger.ObjectKey(key), logger.UploadID(uploadID))
	}
	s.logger.InfoContext(ctx, "multipart upload aborted", logger.ObjectKey(key), logger.UploadID(uploadID))
	return nil
}

func (s *Service) fail(ctx context.Context, op, message string, err error, attrs ...any) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return &router.BodyTooLargeError{Limit: tooLarge.Limit}
	case errors.Is(err, storage.ErrObjectNotFound):
		return response.ErrNotFound.WithMessage("File not found")
	case errors.Is(err, storage.ErrUploadNotFound):
		return response.ErrNotFound.WithMessage("Upload not found")
	case errors.Is(err, storage.ErrInvalidPart):
		return response.ErrBadRequest.WithMessage("Invalid upload part")
	case errors.Is(err, storage.ErrInvalidKey):
		return response.ErrBadRequest.WithMessage("Invalid object key")
	}

	s.logger.ErrorContext(ctx, message, append(attrs, slog.String("op", op), logger.Error(err))...)
	return storage.NewBackendError(op, message, err)
}
