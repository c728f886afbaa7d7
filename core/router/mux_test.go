package router_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

func text(body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(body))
		return err
	}
}

func TestDispatcherRouteHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/hello", func(ctx *router.Context) handler.Response { return text("world") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "world", w.Body.String())
}

func TestDispatcherNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/hello", func(ctx *router.Context) handler.Response { return text("world") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hello", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")
}

func TestDispatcherFallbackHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.SetFallback(func(ctx *router.Context) handler.Response { return text("fallback") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Body.String())
}

func TestDispatcherStaticBeforeRoutes(t *testing.T) {
	t.Parallel()

	var staticCalls int
	static := func(ctx *router.Context) handler.Response {
		staticCalls++
		if ctx.Request().URL.Path == "/index.html" {
			return text("static")
		}
		return nil
	}

	r := router.New[*router.Context](router.WithStatic[*router.Context](static))
	r.Get("/index.html", func(ctx *router.Context) handler.Response { return text("route") })
	r.Get("/api/x", func(ctx *router.Context) handler.Response { return text("api") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	assert.Equal(t, "static", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, "api", w.Body.String(), "nil static response falls through to routes")
	assert.Equal(t, 2, staticCalls)
}

func TestDispatcherMiddlewareShortCircuitSkipsStatic(t *testing.T) {
	t.Parallel()

	var staticCalls int
	r := router.New[*router.Context](
		router.WithStatic[*router.Context](func(ctx *router.Context) handler.Response {
			staticCalls++
			return text("static")
		}),
		router.WithMiddleware[*router.Context](func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					w.WriteHeader(http.StatusUnauthorized)
					return nil
				}
			}
		}),
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, staticCalls)
}

func TestDispatcherNilResponseIsInternalError(t *testing.T) {
	t.Parallel()

	var captured error
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		captured = err
		ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
	}))
	r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nil", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.ErrorIs(t, captured, router.ErrNilResponse)
	var internal *router.InternalError
	assert.ErrorAs(t, captured, &internal)
}

func TestDispatcherRenderErrorGoesToErrorHandler(t *testing.T) {
	t.Parallel()

	errBackend := errors.New("backend exploded")
	r := router.New[*router.Context]()
	r.Get("/fail", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error { return errBackend }
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "exploded", "internal detail must not leak")
}

func TestDispatcherTypedErrorStatus(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Delete("/files", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := ctx.RequiredQueryParam("key")
			return err
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Required query parameter 'key' is missing")
}

func TestDispatcherPanicInHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/panic", func(ctx *router.Context) handler.Response { panic("handler panic") })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDispatcherPanicAfterWrite(t *testing.T) {
	t.Parallel()

	handlerCalled := false
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		handlerCalled = true
	}))
	r.Get("/partial", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusAccepted)
			panic("late")
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.False(t, handlerCalled, "error handler is skipped once the response started")
}

func TestDispatcherMaxBodySize(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithMaxBodySize[*router.Context](8))
	r.Post("/json", func(ctx *router.Context) handler.Response { return text("ok") })

	req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"much":"too long for eight bytes"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDispatcherLogsRequests(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := router.New[*router.Context](router.WithLogger[*router.Context](log))
	r.Get("/ok", func(ctx *router.Context) handler.Response { return text("ok") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"source":"route"`)
	assert.Contains(t, out, `"msg":"request failed"`)
	assert.Contains(t, out, `"path":"/missing"`)
}

type customContext struct {
	*router.Context
	tenant string
}

func TestDispatcherCustomContextFactory(t *testing.T) {
	t.Parallel()

	r := router.New[*customContext](router.WithContextFactory[*customContext](func(w http.ResponseWriter, req *http.Request) *customContext {
		return &customContext{Context: router.NewContext(w, req), tenant: "acme"}
	}))
	r.Get("/t/:id", func(ctx *customContext) handler.Response { return text(ctx.tenant + ":" + ctx.Param("id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t/7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme:7", w.Body.String())
}

func TestDispatcherRequiresFactoryForCustomContext(t *testing.T) {
	t.Parallel()

	r := router.New[*customContext]()
	assert.PanicsWithError(t, router.ErrNoContextFactory.Error(), func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
