package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeout_ReturnsResultBeforeDeadline(t *testing.T) {
	v, err := Timeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 42, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestTimeout_Expires(t *testing.T) {
	released := make(chan struct{})
	_, err := Timeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(released)
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, ErrTimeout)
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("operation context was not cancelled")
	}
}

func TestTimeout_PropagatesError(t *testing.T) {
	_, err := Timeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestTimeout_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Timeout(ctx, time.Second, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestTimeout_Disabled(t *testing.T) {
	v, err := Timeout(context.Background(), 0, func(context.Context) (string, error) {
		return "direct", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "direct", v)
}
