package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
)

// CheckTimeout bounds a single dependency check.
const CheckTimeout = 5 * time.Second

// Check is a named dependency check.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Readiness runs every check in order and answers 503 on the first failure.
// The failing check is logged, never exposed to the client.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := run(ctx, c); err != nil {
				log.ErrorContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
			results[c.Name] = "ok"
		}
		return response.Success(Status{Status: "ready", Checks: results})
	}
}

func run(ctx context.Context, c Check) error {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()
	return c.Fn(ctx)
}
