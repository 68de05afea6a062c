package reliability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type result[T any] struct {
	value T
	err   error
}

var settledNow = func() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Timeout runs op with a deadline of d. After the deadline op's context is
// cancelled and its result is dropped. A non-positive d disables the deadline.
func Timeout[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	v, _, err := timeout(ctx, d, op)
	return v, err
}

// timeout is Timeout plus a channel that is closed once op has really
// returned, which may be after the deadline.
func timeout[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error)) (T, <-chan struct{}, error) {
	if d <= 0 {
		v, err := op(ctx)
		return v, settledNow, err
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan result[T], 1)
	settled := make(chan struct{})
	go func() {
		defer close(settled)
		v, err := op(ctx)
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, settled, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, settled, fmt.Errorf("after %s: %w", d, ErrTimeout)
		}
		return zero, settled, ctx.Err()
	}
}
