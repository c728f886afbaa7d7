package static

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
)

const (
	DefaultIndexFile = "index.html"
	DefaultMaxAge    = time.Hour
)

// DefaultReservedPrefixes are path prefixes never served from the asset store.
var DefaultReservedPrefixes = []string{"api", "dev"}

// Fallback serves assets for GET requests that no route intercepts.
// Every lookup failure is treated as "not found" so routing can continue.
type Fallback struct {
	store    AssetStore
	reserved []string
	index    string
	maxAge   time.Duration
	disabled bool
	logger   *slog.Logger
}

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithReservedPrefixes replaces the reserved path prefixes, given without slashes.
func WithReservedPrefixes(prefixes ...string) FallbackOption {
	return func(f *Fallback) {
		f.reserved = f.reserved[:0]
		for _, p := range prefixes {
			if p = strings.Trim(p, "/"); p != "" {
				f.reserved = append(f.reserved, p)
			}
		}
	}
}

// WithIndexFile sets the document served for "/".
func WithIndexFile(name string) FallbackOption {
	return func(f *Fallback) {
		if name != "" {
			f.index = strings.TrimPrefix(name, "/")
		}
	}
}

// WithMaxAge sets the Cache-Control max-age of served assets.
func WithMaxAge(d time.Duration) FallbackOption {
	return func(f *Fallback) {
		f.maxAge = d
	}
}

// WithDisabled turns the fallback off without removing it from the pipeline.
func WithDisabled(disabled bool) FallbackOption {
	return func(f *Fallback) {
		f.disabled = disabled
	}
}

// WithLogger sets the logger for lookup misses.
func WithLogger(l *slog.Logger) FallbackOption {
	return func(f *Fallback) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFallback creates a Fallback over store.
func NewFallback(store AssetStore, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		store:    store,
		reserved: append([]string(nil), DefaultReservedPrefixes...),
		index:    DefaultIndexFile,
		maxAge:   DefaultMaxAge,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Eligible reports whether the request may be served from the asset store.
func (f *Fallback) Eligible(method, path string) bool {
	if f == nil || f.disabled || f.store == nil || method != http.MethodGet {
		return false
	}
	for _, p := range f.reserved {
		prefix := "/" + p
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}

// Lookup fetches the asset for path. It returns false on any miss or store error.
func (f *Fallback) Lookup(ctx context.Context, path string) ([]byte, string, bool) {
	key := strings.TrimPrefix(path, "/")
	if key == "" {
		key = f.index
	}

	data, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrAssetNotFound) {
			f.logger.DebugContext(ctx, "asset store lookup failed", logger.ObjectKey(key), logger.Error(err))
		} else {
			f.logger.DebugContext(ctx, "asset not found", logger.ObjectKey(key))
		}
		return nil, "", false
	}

	return data, ContentType(key), true
}

// Serve returns the asset Response or nil when the request is not eligible or
// the asset is missing.
func (f *Fallback) Serve(ctx context.Context, r *http.Request) handler.Response {
	if !f.Eligible(r.Method, r.URL.Path) {
		return nil
	}
	data, contentType, ok := f.Lookup(ctx, r.URL.Path)
	if !ok {
		return nil
	}
	return response.WithCache(response.Bytes(data, contentType), f.maxAge)
}

// Handler adapts the fallback to the router's static lookup hook.
func Handler[C handler.Context](f *Fallback) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return f.Serve(ctx, ctx.Request())
	}
}
