package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/middleware"
)

const secret = "s3cr3t"

func tokenRouter(t *testing.T, authorized *bool) http.Handler {
	t.Helper()
	r := newRouter(middleware.TokenAuthWithConfig[ctx](middleware.TokenAuthConfig{
		Skip:  middleware.OnlyPaths("/api"),
		Token: secret,
	}))
	r.Get("/api/files/list", func(c ctx) handler.Response {
		*authorized = c.TokenAuthorized()
		return okHandler(c)
	})
	r.Get("/public", okHandler)
	return r
}

func TestTokenAuthSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		target     string
		wantStatus int
		wantCookie bool
	}{
		{
			name:       "header",
			target:     "/api/files/list",
			prepare:    func(r *http.Request) { r.Header.Set("X-API-Token", secret) },
			wantStatus: http.StatusOK,
		},
		{
			name:   "cookie",
			target: "/api/files/list",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "api_token", Value: secret})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "query issues cookie",
			target:     "/api/files/list?token=" + secret,
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:       "repeated query uses last value",
			target:     "/api/files/list?token=bad&token=" + secret,
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:       "repeated query with bad last value",
			target:     "/api/files/list?token=" + secret + "&token=bad",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong header",
			target:     "/api/files/list",
			prepare:    func(r *http.Request) { r.Header.Set("X-API-Token", "nope") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing",
			target:     "/api/files/list",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var authorized bool
			h := tokenRouter(t, &authorized)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, authorized)

			cookies := w.Result().Cookies()
			if !tt.wantCookie {
				assert.Empty(t, cookies)
				return
			}
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, "api_token", c.Name)
			assert.Equal(t, secret, c.Value)
			assert.Equal(t, "/api", c.Path)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		})
	}
}

func TestTokenAuthRejectsWithEnvelope(t *testing.T) {
	t.Parallel()

	var authorized bool
	h := tokenRouter(t, &authorized)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/list", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, w.Body.String())
}

func TestTokenAuthSkipsOtherPaths(t *testing.T) {
	t.Parallel()

	var authorized bool
	h := tokenRouter(t, &authorized)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTokenAuthRequiresToken(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { middleware.TokenAuth[ctx]("") })
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user, pass string
		set        bool
		wantStatus int
	}{
		{"valid", "admin", "pw", true, http.StatusOK},
		{"wrong password", "admin", "bad", true, http.StatusUnauthorized},
		{"wrong user", "root", "pw", true, http.StatusUnauthorized},
		{"missing", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var authorized bool
			r := newRouter(middleware.BasicAuth[ctx]("admin", "pw"))
			r.Get("/", func(c ctx) handler.Response {
				authorized = c.Authorized()
				return okHandler(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.set {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, authorized)
				return
			}
			assert.Equal(t, `Basic realm="Bucket Manager"`, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestBasicAuthCustomRealm(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.BasicAuthWithConfig[ctx](middleware.BasicAuthConfig{
		Username: "u",
		Password: "p",
		Realm:    "Files",
	}))
	r.Get("/", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, `Basic realm="Files"`, w.Header().Get("WWW-Authenticate"))
}
