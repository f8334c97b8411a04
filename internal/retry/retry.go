// Package retry wraps a single fallible remote call with bounded retries,
// exponential backoff, and jitter. It is pure control flow over a
// zero-argument operation and knows nothing about what it wraps.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ContentHarvester/internal/domain"
)

// Defaults applied when a Policy field is unset.
const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 2 * time.Second
)

// Policy bounds a retry loop. Wait time before attempt n is roughly
// base * 2^(n-1), randomized to avoid thundering-herd synchronization
// across concurrent chunks.
type Policy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxInterval time.Duration
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Do executes op until it succeeds, fails permanently, or the attempt budget
// runs out. The retryable predicate classifies failures: false means fail
// immediately, surfacing the original cause; a nil predicate retries
// everything. Exhaustion returns domain.RetriesExhaustedError carrying the
// last observed cause. When ctx expires mid-retry the loop stops and the
// result wraps domain.ErrCancelled instead of retrying silently.
func Do(ctx context.Context, p Policy, op func() error, retryable func(error) bool) error {
	base := p.BaseBackoff
	if base <= 0 {
		base = DefaultBaseBackoff
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.Multiplier = 2
	bo.RandomizationFactor = 0.5
	bo.MaxElapsedTime = 0
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	bo.Reset()

	attempts := p.attempts()

	var last error
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		last = err
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)
	err := backoff.Retry(wrapped, policy)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if last != nil {
			return fmt.Errorf("%w: %v (last failure: %v)", domain.ErrCancelled, ctxErr, last)
		}
		return fmt.Errorf("%w: %v", domain.ErrCancelled, ctxErr)
	}

	if retryable != nil && !retryable(last) {
		// Permanent failure: a single attempt was made, surface the cause as-is.
		return last
	}

	return &domain.RetriesExhaustedError{Attempts: attempts, Cause: last}
}
