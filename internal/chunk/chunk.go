// Package chunk splits text into bounded-size segments for APIs with
// request-size limits.
package chunk

import (
	"fmt"
	"iter"

	"ContentHarvester/internal/domain"
)

// Split returns a lazy, restartable sequence of contiguous segments of text,
// each at most maxLen runes long. Concatenating the segments reproduces text
// exactly; empty input yields an empty sequence. Bounds are in runes so a
// segment never splits a multi-byte character in half.
func Split(text string, maxLen int) (iter.Seq[string], error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidArgument, maxLen)
	}

	runes := []rune(text)
	return func(yield func(string) bool) {
		for start := 0; start < len(runes); start += maxLen {
			end := start + maxLen
			if end > len(runes) {
				end = len(runes)
			}
			if !yield(string(runes[start:end])) {
				return
			}
		}
	}, nil
}

// Collect materializes the segments of Split into a slice.
func Collect(text string, maxLen int) ([]string, error) {
	seq, err := Split(text, maxLen)
	if err != nil {
		return nil, err
	}

	var segments []string
	for segment := range seq {
		segments = append(segments, segment)
	}
	return segments, nil
}
