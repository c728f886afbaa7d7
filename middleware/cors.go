package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists exact origins, "*" for any origin, or patterns such
	// as "https://*.example.com" that match one or more subdomain labels.
	// Empty means "*".
	AllowOrigins []string

	AllowMethods  []string // default: the methods the file API serves
	AllowHeaders  []string // default includes the API token header
	ExposeHeaders []string

	// AllowCredentials never applies to a wildcard answer.
	AllowCredentials bool

	// MaxAge lets browsers cache preflight answers. Zero omits the header.
	MaxAge time.Duration
}

var (
	defaultCORSMethods = []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodDelete,
	}
	defaultCORSHeaders = []string{
		"Accept",
		"Content-Type",
		"Authorization",
		DefaultRequestIDHeader,
		DefaultTokenHeader,
	}
)

type corsPolicy struct {
	any         bool
	exact       map[string]struct{}
	suffixes    []originPattern
	methods     []string
	methodsHdr  string
	headersHdr  string
	exposeHdr   string
	credentials bool
	maxAge      string
}

type originPattern struct {
	scheme string
	suffix string // ".example.com"
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		exact:       make(map[string]struct{}, len(cfg.AllowOrigins)),
		methods:     cfg.AllowMethods,
		credentials: cfg.AllowCredentials,
		exposeHdr:   strings.Join(cfg.ExposeHeaders, ", "),
	}
	if len(p.methods) == 0 {
		p.methods = defaultCORSMethods
	}
	headers := cfg.AllowHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	p.methodsHdr = strings.Join(p.methods, ", ")
	p.headersHdr = strings.Join(headers, ", ")
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	if len(cfg.AllowOrigins) == 0 {
		p.any = true
	}
	for _, origin := range cfg.AllowOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		switch {
		case origin == "*":
			p.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://")
			p.suffixes = append(p.suffixes, originPattern{scheme: scheme, suffix: strings.TrimPrefix(host, "*")})
		case origin != "":
			p.exact[origin] = struct{}{}
		}
	}
	return p
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when the origin is rejected.
func (p *corsPolicy) allowedOrigin(origin string) string {
	if p.any {
		return "*"
	}
	if origin == "" {
		return ""
	}
	if _, ok := p.exact[origin]; ok {
		return origin
	}
	scheme, host, ok := strings.Cut(origin, "://")
	if !ok {
		return ""
	}
	for _, pat := range p.suffixes {
		if scheme == pat.scheme && len(host) > len(pat.suffix) && strings.HasSuffix(host, pat.suffix) {
			return origin
		}
	}
	return ""
}

func (p *corsPolicy) writeCommon(h http.Header, allowed string) {
	h.Set("Access-Control-Allow-Origin", allowed)
	if p.credentials && allowed != "*" {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Add("Vary", "Origin")
}

func (p *corsPolicy) preflight(req *http.Request) handler.Response {
	allowed := p.allowedOrigin(req.Header.Get("Origin"))
	method := req.Header.Get("Access-Control-Request-Method")
	if allowed == "" || !slices.Contains(p.methods, method) {
		return func(w http.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusForbidden)
			return nil
		}
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		p.writeCommon(h, allowed)
		h.Set("Access-Control-Allow-Methods", p.methodsHdr)
		if r.Header.Get("Access-Control-Request-Headers") != "" {
			h.Set("Access-Control-Allow-Headers", p.headersHdr)
		}
		if p.maxAge != "" {
			h.Set("Access-Control-Max-Age", p.maxAge)
		}
		h.Add("Vary", "Access-Control-Request-Method")
		h.Add("Vary", "Access-Control-Request-Headers")
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// CORS allows any origin with the default methods and headers.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig answers preflight requests directly: 204 when the origin
// and method are allowed, 403 otherwise. Other requests get the allow
// headers before the pipeline continues, so error responses carry them too.
//
//	r.Use(middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
//		Skip:         middleware.OnlyPaths("/api"),
//		AllowOrigins: []string{"https://files.example.com"},
//	}))
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	policy := newCORSPolicy(cfg)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if IsPreflight(req) {
				return policy.preflight(req)
			}

			if allowed := policy.allowedOrigin(req.Header.Get("Origin")); allowed != "" {
				h := ctx.ResponseWriter().Header()
				policy.writeCommon(h, allowed)
				if policy.exposeHdr != "" {
					h.Set("Access-Control-Expose-Headers", policy.exposeHdr)
				}
			}
			return next(ctx)
		}
	}
}
