package middleware

import (
	"crypto/subtle"
	"io"
	"log/slog"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

// DefaultDebugHeader carries the debug token.
const DefaultDebugHeader = "X-Debug-Token"

// DebugOnlyConfig configures the debug endpoint guard.
type DebugOnlyConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Token is compared with the header value. When empty, any non-empty header passes.
	Token string
	// HeaderName (default "X-Debug-Token")
	HeaderName string
	// Logger receives rejected attempts
	Logger *slog.Logger
}

// DebugOnly guards debug endpoints with the given token.
func DebugOnly[C handler.Context](token string) handler.Middleware[C] {
	return DebugOnlyWithConfig[C](DebugOnlyConfig{Token: token})
}

// DebugOnlyWithConfig returns 401 for requests without the debug header.
func DebugOnlyWithConfig[C handler.Context](cfg DebugOnlyConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultDebugHeader
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			value := ctx.Request().Header.Get(cfg.HeaderName)
			ok := value != ""
			if ok && cfg.Token != "" {
				ok = subtle.ConstantTimeCompare([]byte(value), []byte(cfg.Token)) == 1
			}
			if !ok {
				cfg.Logger.WarnContext(ctx, "debug header missing or invalid", logger.Path(ctx.Request().URL.Path))
				return response.Error(&router.UnauthorizedError{})
			}

			return next(ctx)
		}
	}
}
