package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are handled by the framework's error handler.
//
// A nil Response returned from a middleware means the chain fell through
// without producing a response.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a type-safe HTTP request handler with custom context support.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler handles errors during request processing.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps handlers to add cross-cutting functionality.
//
// A middleware may short-circuit by returning its own Response without
// calling next, or act as a wrapper by calling next and decorating the
// Response it gets back.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Decorator post-processes a Response, typically to attach headers or cookies.
type Decorator func(next Response) Response
