package intercept

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Breaker is a circuit breaker shared by the handlers it guards. Domain
// rejections count as successes; only faults trip it.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreaker returns a closed breaker configured from cfg.
func NewBreaker(name string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || domain.IsRejection(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return &Breaker{name: name, cb: cb}
}

// Name returns the breaker's name.
func (b *Breaker) Name() string { return b.name }

// State returns the breaker state as "closed", "half-open", or "open".
func (b *Breaker) State() string { return b.cb.State().String() }

// HealthCheck reports the breaker state: nil when closed, an error naming
// the degraded or failing state otherwise.
func (b *Breaker) HealthCheck(_ context.Context) error {
	switch state := b.cb.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", b.name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", b.name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", b.name, state)
	}
}

// CircuitBreaker routes each message through b. While b is open, messages
// fail fast with an error wrapping domain.ErrUnavailable.
func CircuitBreaker[M any](b *Breaker) Interceptor[M] {
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			_, err := b.cb.Execute(func() (struct{}, error) {
				return struct{}{}, next.Handle(ctx, msg)
			})
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, b.name, err)
			}
			return err
		})
	}
}

// toUint32 converts a non-negative int to uint32, clamping at the maximum.
func toUint32(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
