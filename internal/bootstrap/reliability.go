package bootstrap

import (
	"time"

	"github.com/Domenick1991/roombooking/config"
	"github.com/Domenick1991/roombooking/internal/reliability"
)

// ReliabilityConfig overlays the configured values on reliability.DefaultConfig.
// Zero values keep the defaults.
func ReliabilityConfig(c config.ReliabilityConfig) reliability.Config {
	out := reliability.DefaultConfig()

	if c.MaxRetries > 0 {
		out.Retry.MaxRetries = c.MaxRetries
	}
	if c.BaseDelayMs > 0 {
		out.Retry.BaseDelay = millis(c.BaseDelayMs)
	}
	if c.MaxDelayMs > 0 {
		out.Retry.MaxDelay = millis(c.MaxDelayMs)
	}
	if c.BackoffMultiplier > 0 {
		out.Retry.BackoffMultiplier = c.BackoffMultiplier
	}
	if c.Jitter != nil {
		out.Retry.Jitter = *c.Jitter
	}
	if c.DefaultTimeoutMs > 0 {
		out.DefaultTimeout = millis(c.DefaultTimeoutMs)
	}
	if c.BreakerFailureThreshold > 0 {
		out.Breaker.FailureThreshold = c.BreakerFailureThreshold
	}
	if c.BreakerOpenTimeoutMs > 0 {
		out.Breaker.OpenTimeout = millis(c.BreakerOpenTimeoutMs)
	}

	for name, ms := range c.TimeoutsMs {
		if ms <= 0 {
			continue
		}
		op := out.Operations[name]
		d := millis(ms)
		op.Timeout = &d
		out.Operations[name] = op
	}
	return out
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
