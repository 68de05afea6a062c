package reliability

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const jitterFactor = 0.25

type RetryPolicy struct {
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	Jitter            bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        3,
		BaseDelay:         200 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2,
		Jitter:            true,
	}
}

// backOff yields BaseDelay * Multiplier^n capped at MaxDelay, with +/-25%
// jitter when enabled, and stops after MaxRetries or when ctx is done.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	mult := p.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = time.Duration(math.MaxInt64)
	}
	randomization := 0.0
	if p.Jitter {
		randomization = jitterFactor
	}

	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.BaseDelay),
		backoff.WithMultiplier(mult),
		backoff.WithMaxInterval(maxDelay),
		backoff.WithRandomizationFactor(randomization),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(p.MaxRetries, 0))), ctx)
}

// Retry makes at most MaxRetries+1 sequential attempts and returns the last
// error. Client errors are returned without retrying.
func Retry[T any](ctx context.Context, p RetryPolicy, op func(context.Context) (T, error)) (T, error) {
	return retry(ctx, p, nil, op)
}

func retry[T any](ctx context.Context, p RetryPolicy, notify backoff.Notify, op func(context.Context) (T, error)) (T, error) {
	var last error
	v, err := backoff.RetryNotifyWithData(func() (T, error) {
		v, err := op(ctx)
		last = err
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, p.backOff(ctx), notify)
	if err != nil {
		var zero T
		return zero, last
	}
	return v, nil
}
