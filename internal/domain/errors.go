package domain

import (
	"errors"
	"fmt"
)

// Sentinel failure kinds shared across the pipeline. Callers branch with
// errors.Is instead of inspecting messages.
var (
	// ErrInvalidArgument marks caller misuse: bad chunk size, out-of-range
	// temperature, and similar. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTemplate marks an instruction template without a {text} placeholder.
	ErrInvalidTemplate = errors.New("invalid instruction template")

	// ErrNoTranscript means the provider has no transcript in the requested
	// language. An expected outcome, not a fault.
	ErrNoTranscript = errors.New("no transcript for requested language")

	// ErrSubtitlesDisabled means the provider disabled transcript extraction
	// for this video entirely.
	ErrSubtitlesDisabled = errors.New("subtitles disabled for video")

	// ErrCancelled is returned when a deadline or cancellation interrupts a
	// retry loop mid-flight.
	ErrCancelled = errors.New("operation cancelled")

	// ErrIntegrity marks a uniqueness or foreign-key violation in the
	// provenance store. Indicates an upstream ordering or dedup bug.
	ErrIntegrity = errors.New("integrity violation")

	// ErrStoreUnavailable marks a storage fault other than a constraint
	// violation. Retryable after a delay.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// TransientError wraps a failure believed recoverable by retrying the same
// operation unchanged (network timeout, 5xx, rate limit).
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Transient marks err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Cause: err}
}

// IsTransient reports whether err carries a TransientError anywhere in its chain.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// RetriesExhaustedError is the terminal result of a retry loop that never
// succeeded. Cause holds the last observed failure.
type RetriesExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Cause
}

// ProviderError is a permanent upstream provider failure (quota exceeded,
// bad request, malformed response). Not retried by the stage that saw it.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// PartialTranslationError reports a translation run that lost a chunk.
// FailedChunk is the index of the first chunk that exhausted retries;
// Translated holds the contiguous prefix translated before it. Nothing is
// silently dropped, the caller decides whether the partial result is usable.
type PartialTranslationError struct {
	FailedChunk int
	Translated  []string
	Cause       error
}

func (e *PartialTranslationError) Error() string {
	return fmt.Sprintf("translation failed at chunk %d (%d chunks translated): %v",
		e.FailedChunk, len(e.Translated), e.Cause)
}

func (e *PartialTranslationError) Unwrap() error {
	return e.Cause
}
