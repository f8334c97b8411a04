package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"ContentHarvester/internal/domain"
)

var errBoom = errors.New("boom")

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseBackoff: time.Millisecond}
}

func retryAll(error) bool { return true }

func TestDoSucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	}, retryAll)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 invocations, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return errBoom
	}, retryAll)

	if calls != 3 {
		t.Fatalf("expected exactly 3 invocations, got %d", calls)
	}

	var exhausted *domain.RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("expected 3 attempts recorded, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestDoPermanentFailsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return errBoom
	}, func(error) bool { return false })

	if calls != 1 {
		t.Fatalf("expected exactly 1 invocation, got %d", calls)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected original cause, got %v", err)
	}
	var exhausted *domain.RetriesExhaustedError
	if errors.As(err, &exhausted) {
		t.Fatalf("permanent failure must not report exhaustion")
	}
}

func TestDoNilPredicateRetriesEverything(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fastPolicy(2), func() error {
		calls++
		return errBoom
	}, nil)

	if calls != 2 {
		t.Fatalf("expected 2 invocations, got %d", calls)
	}
	var exhausted *domain.RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError, got %v", err)
	}
}

func TestDoCancelledMidRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 10, BaseBackoff: time.Second}, func() error {
		calls++
		return errBoom
	}, retryAll)

	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if calls >= 10 {
		t.Fatalf("expected retrying to stop on deadline, got %d invocations", calls)
	}
}

func TestDoDefaultsApplied(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{BaseBackoff: time.Millisecond}, func() error {
		calls++
		return errBoom
	}, retryAll)

	if calls != DefaultMaxAttempts {
		t.Fatalf("expected %d invocations by default, got %d", DefaultMaxAttempts, calls)
	}
	var exhausted *domain.RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError, got %v", err)
	}
}
