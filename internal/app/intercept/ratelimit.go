package intercept

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// RateLimit blocks each message until the token bucket admits it. A zero
// cfg.RequestsPerSecond returns a pass-through interceptor. The limiter is
// shared by every handler the interceptor wraps.
func RateLimit[M any](cfg config.RateLimitConfig) Interceptor[M] {
	if cfg.RequestsPerSecond <= 0 {
		return func(next ports.MessageHandler[M]) ports.MessageHandler[M] { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.BurstSize, 1))
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit: %w", err)
			}
			return next.Handle(ctx, msg)
		})
	}
}
