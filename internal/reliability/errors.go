package reliability

import (
	"context"
	"errors"
)

var (
	ErrTimeout     = errors.New("operation timed out")
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

type clientError interface {
	ClientError() bool
}

// IsClientError reports whether err was caused by the request itself.
// Such errors are returned to the caller immediately and never count
// against a circuit breaker.
func IsClientError(err error) bool {
	var ce clientError
	return errors.As(err, &ce) && ce.ClientError()
}

func retryable(err error) bool {
	if err == nil || IsClientError(err) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
