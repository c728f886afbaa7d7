// Package handler provides the types shared by the router, the middleware
// and application handlers: the request Context contract, the Response
// renderer, generic handler and middleware signatures.
//
// # Context
//
// Context is the contract every request context meets. It is a
// context.Context, so it goes straight into storage and logging calls, and it
// exposes the request, the response writer, route parameters and request
// scoped values:
//
//	func getFile(ctx *router.Context) handler.Response {
//		obj, err := bucket.Get(ctx, ctx.Param("key"))
//		...
//	}
//
// router.Context is the default implementation. Types that embed it satisfy
// the contract too, which is how applications add their own request state.
//
// # Responses
//
// Handlers never write to the response writer directly. They return a
// Response which the router renders once the whole pipeline has decided
// what to send, so status and headers are chosen in one place:
//
//	func hello(ctx *router.Context) handler.Response {
//		return func(w http.ResponseWriter, r *http.Request) error {
//			w.Header().Set("Content-Type", "text/plain")
//			w.WriteHeader(http.StatusOK)
//			_, err := w.Write([]byte("hello"))
//			return err
//		}
//	}
//
// An error returned while rendering goes to the router's ErrorHandler, which
// turns it into an error response unless bytes have already been written. The
// response package has constructors for the common cases.
//
// # Middleware
//
// Middleware wraps the next handler. Returning a Response without calling
// next short-circuits the chain; calling next and decorating its result
// turns the middleware into a wrapper:
//
//	func poweredBy[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				resp := next(ctx)
//				if resp == nil {
//					return nil
//				}
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Powered-By", "bucketdesk")
//					return resp(w, r)
//				}
//			}
//		}
//	}
//
// A nil Response from next means the chain fell through; the router then goes
// on to resolve a route.
//
// # Decorators
//
// A Decorator wraps whatever Response is finally rendered, including error
// responses produced by routing. Middleware that must see the outcome of the
// route they run in front of, such as metrics, register one on the context
// instead of wrapping the value next returns:
//
//	ctx.AddDecorator(func(next handler.Response) handler.Response {
//		return func(w http.ResponseWriter, r *http.Request) error {
//			start := time.Now()
//			err := next(w, r)
//			observe(time.Since(start))
//			return err
//		}
//	})
//
// # Generics
//
// HandlerFunc, Middleware and ErrorHandler are parameterised by the context
// type, so a router built for a custom context hands that type to every
// handler without assertions.
package handler
