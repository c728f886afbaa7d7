// Package router dispatches HTTP requests through an ordered middleware chain,
// an optional static asset lookup and an ordered route table.
//
// The router is generic over its request context. *Context is the default and
// needs no setup; applications that want extra request state embed it and
// register a factory with WithContextFactory.
//
// # Features
//
//   - Routes matched in registration order, first match wins
//   - ":name" segment parameters and a "*" remainder wildcard
//   - Method-specific routes plus ANY routes
//   - Middleware that short-circuits or decorates the final response
//   - A static asset hook and a fallback handler before the 404
//   - Body parsing for JSON and multipart requests, with typed
//     accessors for query, form, file and JSON values
//   - Typed errors carrying their HTTP status, rendered by one error handler
//   - One structured log line per request
//
// # Basic usage
//
//	r := router.New[*router.Context](
//		router.WithLogger[*router.Context](log),
//		router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
//	)
//
//	r.Get("/api/files/list", listFiles)
//	r.Post("/api/files/upload", uploadFile)
//	r.Delete("/api/files/delete", deleteFile)
//
//	srv := &http.Server{Addr: ":8080", Handler: r}
//
// A handler receives the context and returns a handler.Response. It never
// writes to the response writer itself; the router renders the Response once
// every middleware and decorator has had its say:
//
//	func listFiles(ctx *router.Context) handler.Response {
//		prefix, _ := ctx.QueryParam("prefix")
//		res, err := svc.List(ctx, prefix)
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.Success(res)
//	}
//
// # Pipeline
//
// For every request the router:
//
//  1. creates the request Context and parses its body,
//  2. runs the middleware chain with no terminal handler; a middleware that
//     returns a Response short-circuits the request,
//  3. asks the static lookup (WithStatic) for an asset,
//  4. matches the route table, falling back to SetFallback or a 404,
//  5. renders the handler's Response through any decorators added to the context.
//
// Panics, parse errors and render errors go to the configured error handler.
// Decorators also wrap routing failures such as a 404, so they observe the
// error before it is rendered; recovered panics bypass them.
//
// # Patterns
//
// Patterns are split into segments: literals match verbatim, ":name" captures a
// single non-empty segment and "*" captures the remainder, including none.
// Trailing slashes are ignored and a missing leading slash is added.
//
//	r.Get("/files/:id", showFile)      // /files/42          -> Param("id") == "42"
//	r.Get("/files/:id/raw", rawFile)   // /files/42/raw
//	r.Get("/browse/*", browse)         // /browse/a/b/c.txt  -> Param("*") == "a/b/c.txt"
//	                                   // /browse            -> Param("*") == ""
//
// A parameter always spans a whole segment: in "/files/:name" a request for
// "/files/a.json" yields Param("name") == "a.json". Empty and duplicate
// parameter names are rejected. Register panics on an invalid pattern, an
// unknown method or a nil handler, so misconfiguration surfaces at startup and
// not on the first request.
//
// # Matching order
//
// Routes are scanned in registration order and the first match wins, so
// register specific patterns before general ones:
//
//	r.Get("/files/search", search) // must come first
//	r.Get("/files/:id", showFile)
//
// Registering the same method and pattern again replaces the handler and keeps
// the original position. Any registers a route for every method; whether it
// beats a method-specific route on the same pattern depends only on which was
// registered first.
//
// Routes and Match expose the table for tooling, e.g. a debug endpoint that
// lists what is served:
//
//	for _, rt := range r.Routes() {
//		fmt.Println(rt.Method, rt.Pattern)
//	}
//
// # Middleware
//
// Middleware run before any route is resolved, so calling next returns nil when
// the chain falls through. A middleware does one of three things.
//
// It rejects the request by returning a Response without calling next:
//
//	func requireJSON(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
//		return func(ctx *router.Context) handler.Response {
//			if ctx.Request().Header.Get("Content-Type") != "application/json" {
//				return response.Error(response.ErrBadRequest.WithMessage("JSON expected"))
//			}
//			return next(ctx)
//		}
//	}
//
// It sets headers on ctx.ResponseWriter() before calling next; they survive
// into whatever is rendered later, error responses included.
//
// Or it registers a decorator to post-process the final response:
//
//	func poweredBy(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
//		return func(ctx *router.Context) handler.Response {
//			ctx.AddDecorator(func(resp handler.Response) handler.Response {
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Powered-By", "bucketdesk")
//					return resp(w, r)
//				}
//			})
//			return next(ctx)
//		}
//	}
//
// Decorators added first end up outermost. Use appends to the chain; the
// WithMiddleware option does the same at construction time.
//
// # Request data
//
// The body is parsed once per request according to its Content-Type. JSON
// bodies are kept for DecodeJSON and JSON; multipart bodies become form
// values and files. For repeated keys the last value wins everywhere.
//
//	key, err := ctx.RequiredQueryParam("key") // *MissingParameterError when absent or empty
//	dir, _ := ctx.FormValue("path")           // multipart field
//	file, err := ctx.RequiredFile("file")     // *File with Name, Size, ContentType, Open
//
//	var body struct {
//		Key      string `json:"key"`
//		UploadID string `json:"uploadId"`
//	}
//	if err := ctx.DecodeJSON(&body); err != nil {
//		return response.Error(err) // *MalformedBodyError, 400
//	}
//
// Handlers that stream the raw body, such as multipart part uploads, read
// ctx.Request().Body directly; requests without a JSON or multipart content
// type are left untouched.
//
// # Errors
//
// Every error type reports its status through StatusCode() and is rendered by
// the error handler set with WithErrorHandler:
//
//	*MissingParameterError  400  Required query parameter 'key' is missing
//	*InvalidParameterError  400  Invalid value for parameter 'partNumber'
//	*MalformedBodyError     400  Malformed request body
//	*UnauthorizedError      401  Unauthorized, plus WWW-Authenticate from Challenge
//	*NotFoundError          404  Not Found
//	*BodyTooLargeError      413  Request body too large, limit is N bytes
//	*InternalError          500  cause logged, never shown
//
// Without an error handler a plain-text answer is written. An error handler
// never writes over a response that has already started.
//
// # Static assets and fallback
//
// WithStatic installs a lookup that runs after middleware and before the route
// table. It returns nil to pass:
//
//	fallback := static.NewFallback(store, static.WithMaxAge(time.Hour))
//	r := router.New[*router.Context](
//		router.WithStatic[*router.Context](static.Handler[*router.Context](fallback)),
//	)
//
// SetFallback (or WithFallback) handles whatever no route matched; without it
// the router answers with a *NotFoundError.
//
// # Limits
//
// WithMaxBodySize caps every request body with http.MaxBytesReader; overflowing
// it while parsing yields a *BodyTooLargeError. WithMaxMemory sets how much of
// a multipart body is held in memory before spilling to disk.
//
// # Custom contexts
//
//	type AppContext struct {
//		*router.Context
//		User string
//	}
//
//	r := router.New[*AppContext](
//		router.WithContextFactory(func(w http.ResponseWriter, r *http.Request) *AppContext {
//			return &AppContext{Context: router.NewContext(w, r)}
//		}),
//	)
//
// Embedding *Context keeps body parsing, parameters and decorators working.
// NewContext uses DefaultMaxMemory for multipart bodies.
// Creating a router for a context type other than *Context without a factory
// panics with ErrNoContextFactory.
//
// # Logging
//
// WithLogger receives one "request completed" line per request with method,
// path, status, elapsed time and a "source" attribute naming the stage that
// answered (middleware, static, route, fallback or error), or a "request failed" line
// carrying the error. Panic records include the stack.
//
// # Testing
//
// A Router is an http.Handler, so tests drive it with httptest:
//
//	w := httptest.NewRecorder()
//	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/list?prefix=docs/", nil))
//	assert.Equal(t, http.StatusOK, w.Code)
package router
