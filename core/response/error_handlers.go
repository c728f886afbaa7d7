package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// publicMessage is implemented by server-side errors that carry a message safe for clients.
type publicMessage interface {
	PublicMessage() string
}

// headerer is implemented by errors that require response headers, such as auth challenges.
type headerer interface {
	Header() http.Header
}

type writtenTracker interface {
	Written() bool
}

// convertToHTTPError maps err to a status and a message that is safe to send.
// Client errors (4xx) keep their own message. Server errors never expose their
// cause; only an explicit PublicMessage or the status text is used.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	if status < http.StatusInternalServerError {
		return NewHTTPError(status, err.Error())
	}

	var pm publicMessage
	if errors.As(err, &pm) {
		return NewHTTPError(status, pm.PublicMessage())
	}
	return NewHTTPError(status, "")
}

// JSONErrorHandler renders errors as {"success":false,"error":"..."}.
// It does nothing once the response has started.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if wt, ok := w.(writtenTracker); ok && wt.Written() {
		return
	}

	httpErr := convertToHTTPError(err)

	var h headerer
	if errors.As(err, &h) {
		for key, values := range h.Header() {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}
	}

	Render(ctx, Failure(httpErr.Message, httpErr.Status))
}
