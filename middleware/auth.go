package middleware

import (
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

// Token sources, in lookup order.
const (
	DefaultTokenHeader = "X-API-Token"
	DefaultTokenCookie = "api_token"
	DefaultTokenQuery  = "token"
)

// DefaultBasicRealm is announced in the WWW-Authenticate challenge.
const DefaultBasicRealm = "Bucket Manager"

// TokenAuthContext is a context that records token authorization and accepts decorators.
type TokenAuthContext interface {
	Decoratable
	SetTokenAuthorized(ok bool)
}

// BasicAuthContext is a context that records Basic authorization.
type BasicAuthContext interface {
	handler.Context
	SetAuthorized(ok bool)
}

// TokenAuthConfig configures the shared-secret token middleware.
type TokenAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Token is the expected secret. Required.
	Token string
	// HeaderName (default "X-API-Token")
	HeaderName string
	// CookieName (default "api_token")
	CookieName string
	// QueryParam (default "token")
	QueryParam string
	// CookiePath scopes the cookie issued after a query-string login (default "/api")
	CookiePath string
	// CookieMaxAge is the lifetime of the issued cookie; zero means a session cookie
	CookieMaxAge time.Duration
	// Secure marks the issued cookie as HTTPS only
	Secure bool
	// Logger receives rejected attempts
	Logger *slog.Logger
}

// TokenAuth protects routes with a shared secret using the default sources.
func TokenAuth[C TokenAuthContext](token string) handler.Middleware[C] {
	return TokenAuthWithConfig[C](TokenAuthConfig{Token: token})
}

// TokenAuthWithConfig accepts the token from the header, the cookie or the
// query string. A token accepted from the query string is exchanged for an
// HttpOnly cookie on the final response so links shared with the token keep
// working without repeating it. Panics when cfg.Token is empty.
func TokenAuthWithConfig[C TokenAuthContext](cfg TokenAuthConfig) handler.Middleware[C] {
	if cfg.Token == "" {
		panic("middleware: token auth requires a non-empty token")
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultTokenHeader
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultTokenCookie
	}
	if cfg.QueryParam == "" {
		cfg.QueryParam = DefaultTokenQuery
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/api"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	expected := []byte(cfg.Token)
	valid := func(candidate string) bool {
		return candidate != "" && subtle.ConstantTimeCompare([]byte(candidate), expected) == 1
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			if valid(req.Header.Get(cfg.HeaderName)) {
				ctx.SetTokenAuthorized(true)
				return next(ctx)
			}

			if c, err := req.Cookie(cfg.CookieName); err == nil && valid(c.Value) {
				ctx.SetTokenAuthorized(true)
				return next(ctx)
			}

			if valid(lastQueryValue(req, cfg.QueryParam)) {
				ctx.SetTokenAuthorized(true)
				cookie := &http.Cookie{
					Name:     cfg.CookieName,
					Value:    cfg.Token,
					Path:     cfg.CookiePath,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteStrictMode,
				}
				if cfg.CookieMaxAge > 0 {
					cookie.MaxAge = int(cfg.CookieMaxAge.Seconds())
				}
				ctx.AddDecorator(func(resp handler.Response) handler.Response {
					return response.WithCookie(resp, cookie)
				})
				return next(ctx)
			}

			cfg.Logger.WarnContext(ctx, "invalid or missing api token",
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
			)
			return response.Error(&router.UnauthorizedError{})
		}
	}
}

// BasicAuthConfig configures HTTP Basic authentication.
type BasicAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Username and Password are the accepted credentials. Both required.
	Username string
	Password string
	// Realm (default "Bucket Manager")
	Realm string
	// Logger receives rejected attempts
	Logger *slog.Logger
}

// BasicAuth protects routes with a single username and password.
func BasicAuth[C BasicAuthContext](username, password string) handler.Middleware[C] {
	return BasicAuthWithConfig[C](BasicAuthConfig{Username: username, Password: password})
}

// BasicAuthWithConfig rejects requests without valid Basic credentials with a
// 401 that carries the realm challenge. Panics when credentials are empty.
func BasicAuthWithConfig[C BasicAuthContext](cfg BasicAuthConfig) handler.Middleware[C] {
	if cfg.Username == "" || cfg.Password == "" {
		panic("middleware: basic auth requires a username and a password")
	}
	if cfg.Realm == "" {
		cfg.Realm = DefaultBasicRealm
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	challenge := `Basic realm="` + cfg.Realm + `"`
	user, pass := []byte(cfg.Username), []byte(cfg.Password)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			u, p, ok := req.BasicAuth()
			if ok {
				userOK := subtle.ConstantTimeCompare([]byte(u), user)
				passOK := subtle.ConstantTimeCompare([]byte(p), pass)
				if userOK&passOK == 1 {
					ctx.SetAuthorized(true)
					return next(ctx)
				}
			}

			cfg.Logger.WarnContext(ctx, "basic auth rejected",
				logger.Path(req.URL.Path),
				slog.Bool("credentials_present", ok),
			)
			return response.Error(&router.UnauthorizedError{Challenge: challenge})
		}
	}
}

// lastQueryValue follows router.Context.QueryParam: repeated keys resolve to
// the last value.
func lastQueryValue(r *http.Request, key string) string {
	values := r.URL.Query()[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
