package middleware

import (
	"strconv"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// SecurityHeadersConfig sets the hardening headers sent with every response.
// Empty fields are omitted.
type SecurityHeadersConfig struct {
	Skip func(ctx handler.Context) bool

	ContentTypeOptions    string // default "nosniff"
	FrameOptions          string // default "DENY"
	ReferrerPolicy        string // default "strict-origin-when-cross-origin"
	ContentSecurityPolicy string

	// HSTSMaxAge enables Strict-Transport-Security. Leave zero unless the
	// service is only reachable over TLS.
	HSTSMaxAge time.Duration
}

// FileManagerCSP returns a policy for the bundled UI: scripts and styles from
// the app itself, previews of images and media from the CDN.
func FileManagerCSP(cdnBaseURL string) string {
	media := "'self' data: blob:"
	if cdnBaseURL != "" {
		media += " " + cdnBaseURL
	}
	return "default-src 'self'; " +
		"img-src " + media + "; " +
		"media-src " + media + "; " +
		"style-src 'self' 'unsafe-inline'; " +
		"frame-ancestors 'none'; base-uri 'self'; form-action 'self'"
}

// SecurityHeaders applies the defaults without a CSP.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](SecurityHeadersConfig{})
}

// SecurityHeadersWithConfig writes the headers before the pipeline continues,
// so error and static responses carry them as well.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.ContentTypeOptions == "" {
		cfg.ContentTypeOptions = "nosniff"
	}
	if cfg.FrameOptions == "" {
		cfg.FrameOptions = "DENY"
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	headers := map[string]string{
		"X-Content-Type-Options": cfg.ContentTypeOptions,
		"X-Frame-Options":        cfg.FrameOptions,
		"Referrer-Policy":        cfg.ReferrerPolicy,
	}
	if cfg.ContentSecurityPolicy != "" {
		headers["Content-Security-Policy"] = cfg.ContentSecurityPolicy
	}
	if cfg.HSTSMaxAge > 0 {
		headers["Strict-Transport-Security"] = "max-age=" + strconv.Itoa(int(cfg.HSTSMaxAge.Seconds())) + "; includeSubDomains"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			h := ctx.ResponseWriter().Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			return next(ctx)
		}
	}
}
