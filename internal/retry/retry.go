// Package retry runs remote calls with bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation. The first attempt is followed by at most
// MaxRetries retries, waiting BaseDelay * 2^n before retry n.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultPolicy matches the spreadsheet client's limits: five retries
// starting at two seconds.
var DefaultPolicy = Policy{MaxRetries: 5, BaseDelay: 2 * time.Second}

// Attempts returns the total number of calls the policy allows
func (p Policy) Attempts() int {
	return p.MaxRetries + 1
}

// Delay returns the wait before retry n (0-based)
func (p Policy) Delay(n int) time.Duration {
	return p.BaseDelay * time.Duration(1<<n)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.Delay(p.MaxRetries)
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)
}

// Do calls op until it succeeds, returns an error rejected by retryable, the
// policy is exhausted or ctx is done. onRetry, if set, is called before each
// wait. The last error of op is returned.
func Do(
	ctx context.Context,
	p Policy,
	op func() error,
	retryable func(error) bool,
	onRetry func(err error, attempt int, delay time.Duration),
) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), func(err error, delay time.Duration) {
		if onRetry != nil {
			onRetry(err, attempt, delay)
		}
	})
}
