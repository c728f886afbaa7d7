package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrNilHandler       = errors.New("nil handler")
)

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// MissingParameterError reports a required query parameter, form field or file
// that was absent from the request.
type MissingParameterError struct {
	// Source is one of "query parameter", "field" or "file".
	Source string
	Key    string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("Required %s '%s' is missing", e.Source, e.Key)
}

func (e *MissingParameterError) StatusCode() int { return http.StatusBadRequest }

// InvalidParameterError reports a parameter that was present but unusable.
type InvalidParameterError struct {
	Key string
	Err error
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("Invalid value for parameter '%s'", e.Key)
}

func (e *InvalidParameterError) Unwrap() error   { return e.Err }
func (e *InvalidParameterError) StatusCode() int { return http.StatusBadRequest }

// MalformedBodyError reports a body that does not match its declared content type.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string   { return "Malformed request body" }
func (e *MalformedBodyError) Unwrap() error   { return e.Err }
func (e *MalformedBodyError) StatusCode() int { return http.StatusBadRequest }

// BodyTooLargeError reports a request body above the configured limit.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return "Request body too large, limit is " + strconv.FormatInt(e.Limit, 10) + " bytes"
}

func (e *BodyTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

// UnauthorizedError rejects a request that failed authentication.
// A non-empty Challenge is sent back in the WWW-Authenticate header.
type UnauthorizedError struct {
	Challenge string
}

func (e *UnauthorizedError) Error() string   { return "Unauthorized" }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Header returns the headers the error response must carry.
func (e *UnauthorizedError) Header() http.Header {
	h := http.Header{}
	if e.Challenge != "" {
		h.Set("WWW-Authenticate", e.Challenge)
	}
	return h
}

// NotFoundError reports a missing route or resource.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "Not Found"
	}
	return e.Message
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// InternalError wraps an unclassified failure. Its cause is never shown to clients.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "internal error"
	}
	return "internal error: " + e.Err.Error()
}

func (e *InternalError) Unwrap() error   { return e.Err }
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

// defaultErrorHandler writes a plain text error, used when no handler is configured.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}

// PanicError interface allows external error handlers to detect and handle panics.
// When a panic is recovered by the router, it's wrapped in an error that implements
// this interface, providing access to the original panic value and stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
