package router

import "github.com/dmitrymomot/bucketdesk/core/handler"

// Execute runs middlewares in registration order around final.
// A nil final means the chain has no terminal handler: reaching the end
// yields a nil Response, which callers treat as "fell through".
func Execute[C handler.Context](ctx C, middlewares []handler.Middleware[C], final handler.HandlerFunc[C]) handler.Response {
	return chain(middlewares, final)(ctx)
}

// chain builds a handler chain from middlewares.
// Middlewares are applied in reverse order so the first one added is the outermost.
func chain[C handler.Context](middlewares []handler.Middleware[C], final handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	if final == nil {
		final = fellThrough[C]
	}
	h := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func fellThrough[C handler.Context](C) handler.Response { return nil }
