package bootstrap

import (
	"testing"
	"time"

	"github.com/Domenick1991/roombooking/config"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReliabilityConfig_DefaultsWhenEmpty(t *testing.T) {
	assert.Equal(t, reliability.DefaultConfig(), ReliabilityConfig(config.ReliabilityConfig{}))
}

func TestReliabilityConfig_Overrides(t *testing.T) {
	jitter := false
	cfg := ReliabilityConfig(config.ReliabilityConfig{
		MaxRetries:              5,
		BaseDelayMs:             50,
		MaxDelayMs:              1000,
		BackoffMultiplier:       3,
		Jitter:                  &jitter,
		DefaultTimeoutMs:        2000,
		TimeoutsMs:              map[string]int{reliability.OpRoomSearch: 750, "custom": 100},
		BreakerFailureThreshold: 2,
		BreakerOpenTimeoutMs:    500,
	})

	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, 3.0, cfg.Retry.BackoffMultiplier)
	assert.False(t, cfg.Retry.Jitter)
	assert.Equal(t, 2*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, 2, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Breaker.OpenTimeout)

	search := cfg.Operations[reliability.OpRoomSearch]
	require.NotNil(t, search.Timeout)
	assert.Equal(t, 750*time.Millisecond, *search.Timeout)
	require.NotNil(t, search.MaxRetries)
	assert.Equal(t, 2, *search.MaxRetries)

	custom := cfg.Operations["custom"]
	require.NotNil(t, custom.Timeout)
	assert.Equal(t, 100*time.Millisecond, *custom.Timeout)
}
