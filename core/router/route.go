package router

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Method is an HTTP method a route is registered for.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodHead    Method = http.MethodHead
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodOptions Method = http.MethodOptions

	// MethodAny matches every request method.
	MethodAny Method = "ANY"
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions, MethodAny:
		return true
	}
	return false
}

func (m Method) matches(method string) bool {
	return m == MethodAny || string(m) == method
}

type route[C handler.Context] struct {
	method  Method
	pattern pattern
	handler handler.HandlerFunc[C]
}

// routeTable keeps routes in registration order. Lookups scan from the
// start and the first structural and method match wins.
type routeTable[C handler.Context] struct {
	routes []*route[C]
}

func (t *routeTable[C]) register(method Method, raw string, h handler.HandlerFunc[C]) error {
	if !method.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if h == nil {
		return fmt.Errorf("%w for %s %s", ErrNilHandler, method, raw)
	}

	p, err := compilePattern(raw)
	if err != nil {
		return err
	}

	for _, rt := range t.routes {
		if rt.method == method && rt.pattern.norm == p.norm {
			rt.pattern = p
			rt.handler = h
			return nil
		}
	}

	t.routes = append(t.routes, &route[C]{method: method, pattern: p, handler: h})
	return nil
}

func (t *routeTable[C]) match(method, path string) (handler.HandlerFunc[C], map[string]string, bool) {
	for _, rt := range t.routes {
		if !rt.method.matches(method) {
			continue
		}
		params := make(map[string]string)
		if rt.pattern.match(path, params) {
			return rt.handler, params, true
		}
	}
	return nil, nil, false
}

func (t *routeTable[C]) list() []Route {
	out := make([]Route, 0, len(t.routes))
	for _, rt := range t.routes {
		out = append(out, Route{Method: string(rt.method), Pattern: rt.pattern.raw})
	}
	return out
}
