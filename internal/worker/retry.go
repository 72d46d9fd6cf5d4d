package worker

import (
	"math"
	"time"
)

// RetryPolicy shapes the backoff between document cleanup attempts.
// Zero fields fall back to the standard budget via withDefaults.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// withDefaults fills unset fields with the cleanup budget: five attempts,
// starting at 30s and doubling up to 30m.
func (r RetryPolicy) withDefaults() RetryPolicy {
	if r.MaxRetries <= 0 {
		r.MaxRetries = 5
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 30 * time.Second
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = 30 * time.Minute
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return r
}

// NextDelay returns the wait before the given attempt (1-based), growing
// by BackoffFactor and clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	r = r.withDefaults()
	if attempt < 1 {
		attempt = 1
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if d > r.MaxDelay {
		d = r.MaxDelay
	}
	return d
}
