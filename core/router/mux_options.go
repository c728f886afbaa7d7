package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware adds middleware to the router.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory sets a custom context factory for the router.
// Required for any context type other than *Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = f
	}
}

// WithLogger sets a custom logger for the router.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStatic sets the static asset lookup tried before route matching.
// The handler returns nil when it has nothing to serve.
func WithStatic[C handler.Context](h handler.HandlerFunc[C]) Option[C] {
	return func(m *mux[C]) {
		m.static = h
	}
}

// WithFallback sets the handler used when no route matches.
func WithFallback[C handler.Context](h handler.HandlerFunc[C]) Option[C] {
	return func(m *mux[C]) {
		m.fallback = h
	}
}

// WithMaxBodySize caps every request body before it is parsed. Zero disables the cap.
func WithMaxBodySize[C handler.Context](n int64) Option[C] {
	return func(m *mux[C]) {
		if n > 0 {
			m.maxBodySize = n
		}
	}
}

// WithMaxMemory sets how much of a multipart body the default context keeps in memory.
func WithMaxMemory[C handler.Context](n int64) Option[C] {
	return func(m *mux[C]) {
		if n > 0 {
			m.maxMemory = n
		}
	}
}
