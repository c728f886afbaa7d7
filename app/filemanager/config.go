package filemanager

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/server"
	"github.com/dmitrymomot/bucketdesk/integration/storage/s3"
)

var (
	ErrMissingAPIToken  = errors.New("API_TOKEN is required")
	ErrInvalidBasicAuth = errors.New("ADMIN_BASIC_AUTH must be in user:password form")
	ErrInvalidMaxUpload = errors.New("MAX_UPLOAD_SIZE must be positive")
)

// Config enumerates every binding the file manager needs.
type Config struct {
	Server server.Config
	S3     s3.Config

	AppName  string `env:"APP_NAME" envDefault:"bucketdesk"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	APIToken       string `env:"API_TOKEN"`
	AdminBasicAuth string `env:"ADMIN_BASIC_AUTH"`
	DebugToken     string `env:"DEBUG_TOKEN"`

	CDNBaseURL    string        `env:"CDN_BASE_URL" envDefault:"https://your-cdn.r2.dev/"`
	DisableStatic bool          `env:"DISABLE_STATIC_FILE_SERVING"`
	AssetsDir     string        `env:"ASSETS_DIR"`
	AssetsPrefix  string        `env:"ASSETS_PREFIX" envDefault:"public/"`
	StaticMaxAge  time.Duration `env:"STATIC_MAX_AGE" envDefault:"1h"`

	MaxUploadSize      int64    `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Validate fails on missing or malformed required bindings.
// S3 settings are checked when the bucket client is built.
func (c Config) Validate() error {
	var errs []error
	if c.APIToken == "" {
		errs = append(errs, ErrMissingAPIToken)
	}
	if c.AdminBasicAuth != "" {
		if _, _, ok := c.BasicAuth(); !ok {
			errs = append(errs, ErrInvalidBasicAuth)
		}
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, ErrInvalidMaxUpload)
	}
	if len(errs) > 0 {
		return fmt.Errorf("filemanager: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// BasicAuth splits AdminBasicAuth into credentials.
// ok is false when Basic auth is disabled or the value is malformed.
func (c Config) BasicAuth() (user, pass string, ok bool) {
	user, pass, found := strings.Cut(c.AdminBasicAuth, ":")
	if !found || user == "" || pass == "" {
		return "", "", false
	}
	return user, pass, true
}

// IsProduction reports whether the app runs with production logging.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
