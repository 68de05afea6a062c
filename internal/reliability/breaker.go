package reliability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/sony/gobreaker/v2"
)

type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

type BreakerSettings struct {
	FailureThreshold int
	OpenTimeout      time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{FailureThreshold: 5, OpenTimeout: 60 * time.Second}
}

type BreakerSnapshot struct {
	Name     string `json:"name"`
	State    State  `json:"state"`
	Failures int    `json:"failures"`
}

// CircuitBreaker opens after FailureThreshold consecutive failures and lets a
// single trial call through once OpenTimeout has passed. Results reported by
// calls admitted before the last state change are ignored.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.TwoStepCircuitBreaker[any]
}

func NewCircuitBreaker(name string, settings BreakerSettings, log *logger.Logger) *CircuitBreaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = DefaultBreakerSettings().FailureThreshold
	}
	threshold := uint32(settings.FailureThreshold)

	return &CircuitBreaker{
		name: name,
		cb: gobreaker.NewTwoStepCircuitBreaker[any](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// Client errors and caller cancellations say nothing about the
			// dependency.
			IsExcluded: func(err error) bool {
				return IsClientError(err) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("circuit %s: %s -> %s", name, toState(from), toState(to))
			},
		}),
	}
}

func (b *CircuitBreaker) Name() string { return b.name }

func (b *CircuitBreaker) State() State {
	return toState(b.cb.State())
}

func (b *CircuitBreaker) Snapshot() BreakerSnapshot {
	return BreakerSnapshot{
		Name:     b.name,
		State:    b.State(),
		Failures: int(b.cb.Counts().ConsecutiveFailures),
	}
}

// allow admits a call or rejects it with ErrCircuitOpen. The returned done
// must be called with the call's error.
func (b *CircuitBreaker) allow() (func(error), error) {
	done, err := b.cb.Allow()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	}
	return done, nil
}

// Guard runs op through the breaker.
func Guard[T any](ctx context.Context, b *CircuitBreaker, op func(context.Context) (T, error)) (T, error) {
	done, err := b.allow()
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := op(ctx)
	done(err)
	return v, err
}

func toState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
