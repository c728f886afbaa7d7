package middleware

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Decoratable is a context that accepts response decorators.
// router.Context satisfies it.
type Decoratable interface {
	handler.Context
	AddDecorator(d handler.Decorator)
}

// HasPathPrefix reports whether path equals prefix or lies below it.
// "/api" matches "/api" and "/api/files" but not "/apix".
func HasPathPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// OnlyPaths returns a Skip function that skips every request outside the given prefixes.
func OnlyPaths(prefixes ...string) func(ctx handler.Context) bool {
	return func(ctx handler.Context) bool {
		return !matchesAny(ctx.Request().URL.Path, prefixes)
	}
}

// ExceptPaths returns a Skip function that skips requests under the given prefixes.
func ExceptPaths(prefixes ...string) func(ctx handler.Context) bool {
	return func(ctx handler.Context) bool {
		return matchesAny(ctx.Request().URL.Path, prefixes)
	}
}

// ExactPaths returns a Skip function that skips every request whose path is not listed.
func ExactPaths(paths ...string) func(ctx handler.Context) bool {
	return func(ctx handler.Context) bool {
		p := strings.TrimSuffix(ctx.Request().URL.Path, "/")
		for _, path := range paths {
			if p == strings.TrimSuffix(path, "/") {
				return false
			}
		}
		return true
	}
}

// IsPreflight reports whether r is a CORS preflight request.
func IsPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if HasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}
