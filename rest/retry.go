package rest

import (
	"context"
	"time"
)

// Default retry behavior: 1 initial attempt plus 3 retries, starting at one
// second between attempts.
const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = time.Second
)

// RetryPolicy controls how the pipeline re-issues failed attempts.
type RetryPolicy struct {
	// MaxAttempts is the total try budget (retries + 1).
	MaxAttempts int
	// BaseDelay is the sleep before the first retry; each later retry
	// doubles it.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultRetryAttempts + 1,
		BaseDelay:   DefaultRetryBaseDelay,
	}
}

// Backoff returns the delay before retry number retryIndex (zero-based):
// BaseDelay * 2^retryIndex. No jitter; the schedule is deterministic.
func (p RetryPolicy) Backoff(retryIndex int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < retryIndex; i++ {
		delay *= 2
	}
	return delay
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
