package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/middleware"
)

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, prefix string
		want         bool
	}{
		{"/api", "/api", true},
		{"/api/files/list", "/api", true},
		{"/api/files/list", "/api/", true},
		{"/apix", "/api", false},
		{"/", "/api", false},
		{"/anything", "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, middleware.HasPathPrefix(tt.path, tt.prefix), "%s vs %s", tt.path, tt.prefix)
	}
}

func TestSkipHelpers(t *testing.T) {
	t.Parallel()

	r := newRouter()
	var onlyAPI, exceptAPI, exactUpload bool
	r.Get("/api/files/upload", func(c ctx) handler.Response {
		onlyAPI = middleware.OnlyPaths("/api")(c)
		exceptAPI = middleware.ExceptPaths("/api")(c)
		exactUpload = middleware.ExactPaths("/api/files/upload", "/api/files/multipart/upload")(c)
		return okHandler(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/upload/", nil))

	assert.False(t, onlyAPI, "requests under /api are not skipped")
	assert.True(t, exceptAPI)
	assert.False(t, exactUpload)
}

func TestIsPreflight(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/api/files/list", nil)
	assert.False(t, middleware.IsPreflight(req))

	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	assert.True(t, middleware.IsPreflight(req))
}
