// Package middleware provides the request pipeline components of the file
// manager: request IDs, security headers, Prometheus metrics, CORS, the debug
// endpoint guard, token and Basic authentication and request body limits.
//
// Every middleware is generic over the request context and follows the same
// shape: a default constructor plus a WithConfig variant whose config carries
// an optional Skip function. Middleware that need more than handler.Context
// declare it as a type constraint (Decoratable, TokenAuthContext,
// BasicAuthContext); *router.Context satisfies all of them.
//
// # Usage
//
//	metrics := middleware.NewMetrics()
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
//	)
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.SecurityHeaders[*router.Context](),
//		middleware.MetricsMiddleware[*router.Context](metrics),
//		middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
//			Skip:         middleware.OnlyPaths("/api"),
//			AllowOrigins: []string{"https://app.example.com"},
//		}),
//		middleware.DebugOnlyWithConfig[*router.Context](middleware.DebugOnlyConfig{
//			Skip:  middleware.OnlyPaths("/dev"),
//			Token: cfg.DebugToken,
//		}),
//		middleware.TokenAuthWithConfig[*router.Context](middleware.TokenAuthConfig{
//			Skip:  middleware.OnlyPaths("/api"),
//			Token: cfg.APIToken,
//		}),
//	)
//
// # Pipeline contract
//
// The router runs middleware before any route is resolved, so next returns nil
// when the chain falls through. Middleware therefore do one of three things:
//
//   - short-circuit by returning a Response: authentication failures, CORS
//     preflight answers and oversized bodies
//   - write headers on ctx.ResponseWriter() before calling next: request ID,
//     security headers and CORS
//   - register a decorator on the context to observe the final response:
//     metrics and the token cookie
//
// Headers written before next survive into every later answer, error responses
// included. A middleware's position in the chain is therefore a decision about
// which rejections carry its headers.
//
// # Ordering
//
// The file manager installs its chain in this order:
//
//	RequestID -> SecurityHeaders -> Metrics -> CORS -> DebugOnly -> TokenAuth -> BasicAuth -> BodyLimit
//
// RequestID comes first so every log line and error carries the ID. Metrics
// sits before the guards so rejected requests are counted. CORS must precede
// every guard: a 401 from TokenAuth or a 413 from BodyLimit without
// Access-Control-Allow-Origin is unreadable to the browser, which then reports
// a network error instead of the real status. TokenAuth skips preflight
// requests, which never carry credentials.
//
// # Scoping
//
// The path helpers build Skip functions:
//
//	middleware.OnlyPaths("/api")              // run only under /api
//	middleware.ExceptPaths("/api")            // run everywhere except /api
//	middleware.ExactPaths("/api/files/upload") // run only on listed paths
//
// Prefixes match whole segments: "/api" covers "/api" and "/api/files" but not
// "/apix". Skip functions compose with plain boolean logic:
//
//	apiOnly := middleware.OnlyPaths("/api")
//	skip := func(ctx handler.Context) bool {
//		return apiOnly(ctx) || middleware.IsPreflight(ctx.Request())
//	}
//
// # Request ID
//
// RequestID sets X-Request-ID on the response and stores the ID in the request
// context. With UseExisting an incoming ID is reused when it is printable ASCII
// of at most 128 bytes; anything else is replaced by a fresh UUID.
//
//	id, ok := middleware.GetRequestID(ctx)
//
// Registering RequestIDExtractor with the logger adds the ID to every record
// logged with the request context:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDExtractor))
//
// # Security headers
//
// SecurityHeaders sets X-Content-Type-Options, X-Frame-Options and
// Referrer-Policy. A Content-Security-Policy and Strict-Transport-Security are
// opt-in:
//
//	middleware.SecurityHeadersWithConfig[*router.Context](middleware.SecurityHeadersConfig{
//		ContentSecurityPolicy: middleware.FileManagerCSP(cfg.CDNBaseURL),
//		HSTSMaxAge:            180 * 24 * time.Hour,
//	})
//
// FileManagerCSP allows scripts and styles from the application itself and
// image and media previews from the CDN the file links point to.
//
// # CORS
//
// AllowOrigins takes exact origins, "*" or subdomain patterns:
//
//	middleware.CORSConfig{
//		AllowOrigins:     []string{"https://app.example.com", "https://*.example.org"},
//		AllowCredentials: true,
//		MaxAge:           10 * time.Minute,
//	}
//
// "https://*.example.org" matches "https://a.example.org" and
// "https://a.b.example.org" but not "https://example.org". An allowed origin is
// echoed back with Vary: Origin; an unknown origin gets no CORS headers and the
// request proceeds, leaving enforcement to the browser. Preflight requests
// never reach a handler: they get 204 when origin and method are allowed and
// 403 otherwise. Credentials are never allowed on a wildcard answer.
//
// # Authentication
//
// TokenAuth accepts a shared secret from the X-API-Token header, the api_token
// cookie or the token query parameter, checked in that order and compared in
// constant time. When the query parameter repeats, the last value counts. A
// token that arrived in the query string is swapped for an HttpOnly,
// SameSite=Strict cookie scoped to /api, so links such as
// "/api/files/get?key=a.txt&token=..." work once and later requests ride on
// the cookie. Rejections are *router.UnauthorizedError values rendered by the
// router's error handler.
//
// BasicAuth protects the UI with one username and password and answers
// failures with a 401 carrying WWW-Authenticate: Basic realm="Bucket Manager".
// Both middleware mark the context (SetTokenAuthorized, SetAuthorized) so
// handlers can tell how a request got in.
//
// # Debug guard
//
// DebugOnly hides the /dev endpoints behind the X-Debug-Token header. With a
// Token configured the header must match it; with an empty Token any non-empty
// header passes.
//
// # Body limits
//
// BodyLimit rejects a declared Content-Length above the limit with 413 and
// wraps unread bodies so streaming past the limit fails. Per media type limits
// override the default:
//
//	middleware.BodyLimitWithConfig[*router.Context](middleware.BodyLimitConfig{
//		MaxSize: 100 << 20,
//		ContentTypeLimit: map[string]int64{
//			"application/json": 1 << 20,
//		},
//	})
//
// JSON and multipart bodies are parsed before middleware run, so pair BodyLimit
// with router.WithMaxBodySize to bound those.
//
// # Metrics
//
// NewMetrics registers a request counter labelled by method and status, a
// latency histogram and an in-flight gauge in its own registry:
//
//	metrics := middleware.NewMetrics(
//		middleware.WithNamespace("bucketdesk"),
//		middleware.WithBuckets([]float64{0.01, 0.05, 0.1, 0.5, 1, 5}),
//	)
//	r.Get("/dev/metrics", func(ctx *router.Context) handler.Response {
//		return func(w http.ResponseWriter, r *http.Request) error {
//			metrics.Handler().ServeHTTP(w, r)
//			return nil
//		}
//	})
//
// MetricsMiddleware observes the status actually written, so 401s from later
// guards, 404s and handler errors are all counted.
package middleware
