package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
)

// Response sources reported in the request log.
const (
	sourceMiddleware = "middleware"
	sourceStatic     = "static"
	sourceRoute      = "route"
	sourceFallback   = "fallback"
	sourceError      = "error"
)

type (
	parser interface{ Parse() error }

	paramSetter interface {
		SetParams(map[string]string)
	}

	decorated interface {
		Decorators() []handler.Decorator
	}
)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	table        routeTable[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	static       handler.HandlerFunc[C]
	fallback     handler.HandlerFunc[C]
	maxBodySize  int64
	maxMemory    int64
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
		maxMemory:    DefaultMaxMemory,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only *Context works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, m.maxMemory)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ww := newResponseWriter(w)

	if m.maxBodySize > 0 && r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(ww, r.Body, m.maxBodySize)
	}

	ctx := m.newContext(ww, r)

	defer func() {
		if p := recover(); p != nil {
			m.fail(ctx, ww, start, &panicError{value: p, stack: debug.Stack()})
		}
	}()

	resp, source, err := m.dispatch(ctx)
	if err != nil {
		// Decorators still observe dispatch failures; the error surfaces when rendered.
		resp = func(http.ResponseWriter, *http.Request) error { return err }
	}

	if d, ok := any(ctx).(decorated); ok {
		decorators := d.Decorators()
		for i := len(decorators) - 1; i >= 0; i-- {
			resp = decorators[i](resp)
		}
	}

	if err := resp(ww, ctx.Request()); err != nil {
		m.fail(ctx, ww, start, err)
		return
	}

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	m.logger.InfoContext(ctx, "request completed",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.StatusCode(status),
		logger.Elapsed(start),
		slog.String("source", source),
	)
}

// dispatch runs the pipeline up to the point where a Response is chosen.
func (m *mux[C]) dispatch(ctx C) (handler.Response, string, error) {
	if p, ok := any(ctx).(parser); ok {
		if err := p.Parse(); err != nil {
			return nil, sourceError, err
		}
	}

	if len(m.middlewares) > 0 {
		if resp := Execute(ctx, m.middlewares, nil); resp != nil {
			return resp, sourceMiddleware, nil
		}
	}

	if m.static != nil {
		if resp := m.static(ctx); resp != nil {
			return resp, sourceStatic, nil
		}
	}

	req := ctx.Request()
	h, params, ok := m.table.match(req.Method, req.URL.Path)
	source := sourceRoute
	if !ok {
		if m.fallback == nil {
			return nil, sourceError, &NotFoundError{}
		}
		h, source = m.fallback, sourceFallback
	}

	if ps, ok := any(ctx).(paramSetter); ok {
		ps.SetParams(params)
	}

	resp := h(ctx)
	if resp == nil {
		return nil, sourceError, &InternalError{Err: fmt.Errorf("%w from %s %s", ErrNilResponse, req.Method, req.URL.Path)}
	}
	return resp, source, nil
}

// fail logs the failure and hands it to the error handler unless the response already started.
func (m *mux[C]) fail(ctx C, ww *responseWriter, start time.Time, err error) {
	r := ctx.Request()
	attrs := []any{
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Error(err),
		logger.Elapsed(start),
	}
	if pe, ok := err.(PanicError); ok {
		attrs = append(attrs, slog.String("stack", string(pe.Stack())))
	}

	if ww.Written() {
		m.logger.ErrorContext(ctx, "request failed after response written", append(attrs, logger.StatusCode(ww.Status()))...)
		return
	}

	m.errorHandler(ctx, err)

	status := ww.Status()
	level := slog.LevelWarn
	if status == 0 || status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	m.logger.Log(ctx, level, "request failed", append(attrs, logger.StatusCode(status))...)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodGet)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodPost)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodPut)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodPatch)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodDelete)
}

// Any registers a handler for every HTTP method.
func (m *mux[C]) Any(pattern string, h handler.HandlerFunc[C]) {
	m.Register(pattern, h, MethodAny)
}

// Register panics on an invalid method, pattern or nil handler.
func (m *mux[C]) Register(pattern string, h handler.HandlerFunc[C], method Method) {
	if err := m.table.register(method, pattern, h); err != nil {
		panic(err)
	}
}

func (m *mux[C]) Match(method, path string) (handler.HandlerFunc[C], map[string]string, bool) {
	return m.table.match(method, path)
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) SetFallback(h handler.HandlerFunc[C]) {
	m.fallback = h
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	return m.table.list()
}
