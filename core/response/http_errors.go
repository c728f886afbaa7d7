package response

import "net/http"

// HTTPError is an error with an explicit status and client-facing message.
type HTTPError struct {
	Status  int
	Message string
}

// NewHTTPError creates an HTTPError. A zero status means 500.
func NewHTTPError(status int, message string) HTTPError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return HTTPError{Status: status, Message: message}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest, "")
	ErrUnauthorized          = NewHTTPError(http.StatusUnauthorized, "")
	ErrForbidden             = NewHTTPError(http.StatusForbidden, "")
	ErrNotFound              = NewHTTPError(http.StatusNotFound, "")
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge, "")
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError, "")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, "")
)
