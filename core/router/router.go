package router

import (
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Router dispatches requests through middleware, the static fallback and
// an ordered route table.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Any(pattern string, h handler.HandlerFunc[C])

	// Register adds a route. Registering the same method and pattern again
	// replaces the handler and keeps the original position in the table.
	Register(pattern string, h handler.HandlerFunc[C], method Method)

	// Match resolves a method and path to the first matching route.
	Match(method, path string) (handler.HandlerFunc[C], map[string]string, bool)

	Use(middlewares ...handler.Middleware[C])

	// SetFallback sets the handler used when no route matches.
	SetFallback(h handler.HandlerFunc[C])
}

// Routes provides route introspection capabilities for debugging and monitoring.
type Routes interface {
	Routes() []Route
}

// Route describes a single route in the router with its HTTP method and pattern.
type Route struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
