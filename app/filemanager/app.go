package filemanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
	"github.com/dmitrymomot/bucketdesk/core/server"
	"github.com/dmitrymomot/bucketdesk/core/static"
	"github.com/dmitrymomot/bucketdesk/core/storage"
	"github.com/dmitrymomot/bucketdesk/integration/storage/s3"
	"github.com/dmitrymomot/bucketdesk/middleware"
)

// hstsMaxAge is announced in production, where the app sits behind TLS.
const hstsMaxAge = 180 * 24 * time.Hour

// multipartOverhead is added to MaxUploadSize for form boundaries and fields.
const multipartOverhead = 1 << 20

// App wires the file manager: bucket, service, router, middleware and server.
// Everything is built once in NewApp and shared by reference.
type App struct {
	config  Config
	router  router.Router[*router.Context]
	server  *server.Server
	bucket  storage.Bucket
	assets  static.AssetStore
	service *Service
	metrics *middleware.Metrics
	logger  *slog.Logger
}

type AppOption func(*App) error

// NewApp validates cfg and builds the application.
// Components not supplied through options are created from cfg.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = NewLogger(cfg)
	}

	if app.bucket == nil {
		b, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("filemanager: build bucket: %w", err)
		}
		app.bucket = b
	}

	if app.assets == nil && !cfg.DisableStatic {
		if cfg.AssetsDir != "" {
			store, err := static.NewFSStore(os.DirFS(cfg.AssetsDir))
			if err != nil {
				return nil, fmt.Errorf("filemanager: assets dir: %w", err)
			}
			app.assets = store
		} else {
			app.assets = static.NewBucketStore(app.bucket, cfg.AssetsPrefix)
		}
	}

	if app.metrics == nil {
		app.metrics = middleware.NewMetrics()
	}

	app.service = NewService(app.bucket, app.logger)

	if app.router == nil {
		fallback := static.NewFallback(app.assets,
			static.WithMaxAge(cfg.StaticMaxAge),
			static.WithDisabled(cfg.DisableStatic),
			static.WithLogger(app.logger.With(logger.Component("static"))),
		)
		app.router = router.New[*router.Context](
			router.WithLogger[*router.Context](app.logger.With(logger.Component("router"))),
			router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
			router.WithStatic[*router.Context](static.Handler[*router.Context](fallback)),
			router.WithMaxBodySize[*router.Context](cfg.MaxUploadSize+multipartOverhead),
		)
	}
	app.router.Use(app.middlewares()...)
	app.registerRoutes()

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger.With(logger.Component("server"))))
		if err != nil {
			return nil, fmt.Errorf("filemanager: build server: %w", err)
		}
		app.server = s
	}

	return app, nil
}

// NewLogger builds the application logger: JSON in production, colored text otherwise.
func NewLogger(cfg Config) *slog.Logger {
	mode := logger.WithDevelopment(cfg.AppName)
	if cfg.IsProduction() {
		mode = logger.WithProduction(cfg.AppName)
	}
	return logger.New(mode,
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)
}

// WithLogger overrides the application logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithBucket injects the backing store instead of connecting to S3.
func WithBucket(bucket storage.Bucket) AppOption {
	return func(app *App) error {
		if bucket == nil {
			return errors.New("bucket cannot be nil")
		}
		app.bucket = bucket
		return nil
	}
}

// WithAssets sets the store the static fallback serves the UI from.
func WithAssets(store static.AssetStore) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("asset store cannot be nil")
		}
		app.assets = store
		return nil
	}
}

// WithRouter replaces the router. Middleware and routes are still registered on it.
func WithRouter(router router.Router[*router.Context]) AppOption {
	return func(app *App) error {
		if router == nil {
			return errors.New("router cannot be nil")
		}
		app.router = router
		return nil
	}
}

// WithServer replaces the HTTP server.
func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(metrics *middleware.Metrics) AppOption {
	return func(app *App) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		app.metrics = metrics
		return nil
	}
}

// Handler returns the request dispatcher.
func (a *App) Handler() http.Handler { return a.router }

// Routes lists the registered routes in dispatch order.
func (a *App) Routes() []router.Route { return a.router.Routes() }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Run serves until ctx is canceled, then shuts the server down gracefully.
// The returned function fits errgroup.Group.Go.
func (a *App) Run(ctx context.Context) func() error {
	return a.server.Run(ctx, a.router)
}

// middlewares returns the pipeline in execution order.
func (a *App) middlewares() []handler.Middleware[*router.Context] {
	cfg := a.config
	log := a.logger.With(logger.Component("auth"))

	corsEnabled := len(cfg.CORSAllowedOrigins) > 0
	apiOnly := middleware.OnlyPaths("/api")

	security := middleware.SecurityHeadersConfig{
		ContentSecurityPolicy: middleware.FileManagerCSP(cfg.CDNBaseURL),
	}
	if cfg.IsProduction() {
		security.HSTSMaxAge = hstsMaxAge
	}

	mws := []handler.Middleware[*router.Context]{
		middleware.RequestID[*router.Context](),
		middleware.SecurityHeadersWithConfig[*router.Context](security),
		middleware.MetricsMiddleware[*router.Context](a.metrics),
	}

	// CORS headers go out before any guard can reject the request, so
	// browsers can read 401 and 413 answers.
	if corsEnabled {
		mws = append(mws, middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
			Skip:          apiOnly,
			AllowOrigins:  cfg.CORSAllowedOrigins,
			ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
		}))
	}

	mws = append(mws,
		middleware.DebugOnlyWithConfig[*router.Context](middleware.DebugOnlyConfig{
			Skip:   middleware.OnlyPaths("/dev"),
			Token:  cfg.DebugToken,
			Logger: log,
		}),
		middleware.TokenAuthWithConfig[*router.Context](middleware.TokenAuthConfig{
			Skip: func(ctx handler.Context) bool {
				return apiOnly(ctx) || (corsEnabled && middleware.IsPreflight(ctx.Request()))
			},
			Token:  cfg.APIToken,
			Logger: log,
		}),
	)

	if user, pass, ok := cfg.BasicAuth(); ok {
		mws = append(mws, middleware.BasicAuthWithConfig[*router.Context](middleware.BasicAuthConfig{
			Skip:     middleware.ExceptPaths("/api"),
			Username: user,
			Password: pass,
			Logger:   log,
		}))
	}

	mws = append(mws, middleware.BodyLimitWithConfig[*router.Context](middleware.BodyLimitConfig{
		Skip:    middleware.ExactPaths("/api/files/upload", "/api/files/multipart/upload"),
		MaxSize: cfg.MaxUploadSize,
	}))

	return mws
}
