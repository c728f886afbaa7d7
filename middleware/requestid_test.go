package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/middleware"
)

func TestRequestIDDefaultConfiguration(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.RequestID[ctx]())

	var capturedID string
	r.Get("/test", func(c ctx) handler.Response {
		id, ok := middleware.GetRequestID(c)
		assert.True(t, ok, "Request ID should be present in context")
		capturedID = id
		return okHandler(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, capturedID, 36, "Default ID should be UUID v4 format")
	assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
}

func TestRequestIDOnErrorResponse(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.RequestID[ctx]())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDUseExisting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		useExisting bool
		incoming    string
		want        string
	}{
		{"reuses incoming", true, "abc-123", "abc-123"},
		{"ignores incoming", false, "abc-123", "generated"},
		{"generates when absent", true, "", "generated"},
		{"replaces unprintable", true, "abc 123", "generated"},
		{"replaces oversized", true, strings.Repeat("a", 129), "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRouter(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
				UseExisting: tt.useExisting,
				HeaderName:  "X-Trace-ID",
				Generator:   func() string { return "generated" },
			}))
			r.Get("/test", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Trace-ID", tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("X-Trace-ID"))
		})
	}
}

func TestRequestIDSkip(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
		Skip: middleware.ExceptPaths("/health"),
	}))
	r.Get("/health", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
		Generator: func() string { return "req-42" },
	}))

	var attr slog.Attr
	var found bool
	r.Get("/test", func(c ctx) handler.Response {
		attr, found = middleware.RequestIDExtractor(c)
		return okHandler(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.True(t, found)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-42", attr.Value.String())

	_, found = middleware.RequestIDExtractor(context.Background())
	assert.False(t, found)
}
