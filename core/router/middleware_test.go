package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

type mw = handler.Middleware[*router.Context]

func counting(calls *int, order *[]string, name string) mw {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*calls++
			*order = append(*order, name)
			return next(ctx)
		}
	}
}

func TestExecuteRunsInRegistrationOrder(t *testing.T) {
	t.Parallel()

	var calls int
	var order []string
	middlewares := []mw{
		counting(&calls, &order, "first"),
		counting(&calls, &order, "second"),
		counting(&calls, &order, "third"),
	}

	resp := router.Execute(&router.Context{}, middlewares, nil)

	assert.Nil(t, resp, "chain without a final handler falls through")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestExecuteWithFinalHandler(t *testing.T) {
	t.Parallel()

	var order []string
	var calls int
	final := func(ctx *router.Context) handler.Response {
		order = append(order, "final")
		return func(w http.ResponseWriter, r *http.Request) error { return nil }
	}

	resp := router.Execute(&router.Context{}, []mw{counting(&calls, &order, "m")}, final)

	assert.NotNil(t, resp)
	assert.Equal(t, []string{"m", "final"}, order)
}

func TestExecuteEmptyChain(t *testing.T) {
	t.Parallel()

	assert.Nil(t, router.Execute[*router.Context](&router.Context{}, nil, nil))
}

func TestMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	var firstCalls, thirdCalls, handlerCalls int
	var order []string

	stop := func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusTeapot)
				return nil
			}
		}
	}

	r := router.New[*router.Context]()
	r.Use(counting(&firstCalls, &order, "first"), stop, counting(&thirdCalls, &order, "third"))
	r.Get("/test", func(ctx *router.Context) handler.Response {
		handlerCalls++
		return func(w http.ResponseWriter, r *http.Request) error { return nil }
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, thirdCalls)
	assert.Equal(t, 0, handlerCalls)
}

func TestMiddlewareWrapperSeesDownstreamResponse(t *testing.T) {
	t.Parallel()

	inner := func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				_, err := w.Write([]byte("inner"))
				return err
			}
		}
	}
	wrapper := func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			if resp == nil {
				return nil
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set("X-Wrapped", "yes")
				return resp(w, r)
			}
		}
	}

	r := router.New[*router.Context]()
	r.Use(wrapper, inner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Wrapped"))
	assert.Equal(t, "inner", w.Body.String())
}

func TestMiddlewareDecoratorWrapsRouteResponse(t *testing.T) {
	t.Parallel()

	var order []string
	decorate := func(name string) mw {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				ctx.AddDecorator(func(resp handler.Response) handler.Response {
					return func(w http.ResponseWriter, r *http.Request) error {
						order = append(order, name+"-before")
						err := resp(w, r)
						order = append(order, name+"-after")
						return err
					}
				})
				return next(ctx)
			}
		}
	}

	r := router.New[*router.Context]()
	r.Use(decorate("outer"), decorate("inner"))
	r.Get("/test", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			order = append(order, "handler")
			return nil
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, []string{"outer-before", "inner-before", "handler", "inner-after", "outer-after"}, order)
}

func TestDecoratorObservesNotFound(t *testing.T) {
	t.Parallel()

	var observed error
	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.AddDecorator(func(resp handler.Response) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					w.Header().Set("X-Decorated", "yes")
					observed = resp(w, r)
					return observed
				}
			})
			return next(ctx)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Decorated"))
	var nf *router.NotFoundError
	assert.ErrorAs(t, observed, &nf)
}

func TestMiddlewareSharesContextWithHandler(t *testing.T) {
	t.Parallel()

	type key struct{}

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.SetValue(key{}, "from-middleware")
			ctx.SetTokenAuthorized(true)
			return next(ctx)
		}
	})

	var value any
	var authorized bool
	r.Get("/test", func(ctx *router.Context) handler.Response {
		value = ctx.Value(key{})
		authorized = ctx.TokenAuthorized()
		return func(w http.ResponseWriter, r *http.Request) error { return nil }
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-middleware", value)
	assert.True(t, authorized)
}

func TestMiddlewarePanicReachesBoundary(t *testing.T) {
	t.Parallel()

	var captured error
	r := router.New[*router.Context](
		router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			captured = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}),
	)
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			panic("boom")
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var pe router.PanicError
	require.ErrorAs(t, captured, &pe)
	assert.Equal(t, "boom", pe.Value())
	assert.NotEmpty(t, pe.Stack())
}
