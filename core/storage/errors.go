package storage

import (
	"errors"
	"net/http"
)

var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrUploadNotFound     = errors.New("multipart upload not found")
	ErrInvalidPart        = errors.New("invalid multipart part")
	ErrInvalidKey         = errors.New("invalid object key")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("storage service unavailable")
	ErrOperationTimeout   = errors.New("storage operation timed out")
	ErrOperationCanceled  = errors.New("storage operation canceled")
	ErrInvalidConfig      = errors.New("invalid storage configuration")
)

// BackendError reports a failed backing-store call.
// Message is safe to show to API clients; Err holds the cause and is only logged.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

// NewBackendError wraps err with the failed operation and a client-safe message.
func NewBackendError(op, message string, err error) *BackendError {
	return &BackendError{Op: op, Message: message, Err: err}
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return e.Op + ": backend error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// StatusCode implements the router's status code contract.
func (e *BackendError) StatusCode() int { return http.StatusInternalServerError }

// PublicMessage returns the message that may be sent to clients.
func (e *BackendError) PublicMessage() string {
	if e.Message == "" {
		return http.StatusText(http.StatusInternalServerError)
	}
	return e.Message
}
