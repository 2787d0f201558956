package intercept

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// Retry re-invokes the handler while it fails with domain.ErrUnavailable,
// up to cfg.MaxAttempts in total, with exponential backoff and jitter.
// Every other error is returned immediately, as is any error wrapping
// domain.ErrAlreadyApplied.
func Retry[M any](cfg config.RetryConfig) Interceptor[M] {
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			var err error
			for attempt := range max(cfg.MaxAttempts, 1) {
				if attempt > 0 {
					if waitErr := waitForRetry(ctx, cfg, nameOf(msg), attempt, err); waitErr != nil {
						return errors.Join(err, waitErr)
					}
				}

				err = next.Handle(ctx, msg)
				if !isRetryable(err) {
					return err
				}
			}
			return err
		})
	}
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrAlreadyApplied) {
		return false
	}
	return errors.Is(err, domain.ErrUnavailable)
}

// waitForRetry logs the retry at warn and sleeps for the backoff delay or
// until ctx is done.
func waitForRetry(ctx context.Context, cfg config.RetryConfig, name string, attempt int, lastErr error) error {
	delay := backoff(attempt, cfg)

	logging.FromContext(ctx).WarnContext(ctx, "retrying message handler",
		slog.String("operation", "intercept.Retry"),
		slog.String("message", name),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", cfg.MaxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns the delay before retry attempt (1-indexed), capped at
// cfg.MaxInterval before jitter is applied.
func backoff(attempt int, cfg config.RetryConfig) time.Duration {
	delay := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if delay > float64(cfg.MaxInterval) {
		delay = float64(cfg.MaxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
