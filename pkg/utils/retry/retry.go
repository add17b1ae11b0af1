package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxAttempts     = 3
	defaultInitialInterval = time.Second
)

type policy struct {
	maxAttempts     uint64
	initialInterval time.Duration
	retryable       func(error) bool
}

// Option configures the retry policy.
type Option func(*policy)

// WithMaxAttempts sets the total number of attempts, including the first one.
func WithMaxAttempts(n int) Option {
	return func(p *policy) {
		if n > 0 {
			p.maxAttempts = uint64(n)
		}
	}
}

// WithInitialInterval sets the delay before the first retry. Subsequent
// delays double.
func WithInitialInterval(d time.Duration) Option {
	return func(p *policy) {
		if d > 0 {
			p.initialInterval = d
		}
	}
}

// WithRetryable restricts retries to errors matching the predicate. Errors
// rejected by the predicate abort immediately.
func WithRetryable(f func(error) bool) Option {
	return func(p *policy) {
		p.retryable = f
	}
}

// Do runs op with exponential backoff: 3 attempts and a 1 second initial
// delay by default. Context cancellation aborts waiting between attempts.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	p := &policy{
		maxAttempts:     defaultMaxAttempts,
		initialInterval: defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(p)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.initialInterval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if p.retryable != nil && !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.maxAttempts-1), ctx)
	return backoff.Retry(wrapped, b)
}
