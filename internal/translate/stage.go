// Package translate converts fallback-language text to the target language
// chunk-by-chunk, reassembling results in chunk-index order regardless of
// completion order.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"ContentHarvester/internal/chunk"
	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
	"ContentHarvester/internal/retry"
)

// DefaultConcurrency bounds simultaneous chunk calls to respect provider
// rate limits.
const DefaultConcurrency = 4

// Options configure a Stage. ChunkSize zero falls back to the provider's
// published default; Concurrency zero falls back to DefaultConcurrency.
type Options struct {
	ChunkSize   int
	Concurrency int
	Retry       retry.Policy
	Logger      *slog.Logger
}

// Stage fans chunks out to a bounded worker pool, retries each chunk
// independently, and joins the results in emission order.
type Stage struct {
	provider    Provider
	chunkSize   int
	concurrency int
	policy      retry.Policy
	logger      *slog.Logger
}

var _ ports.Translator = (*Stage)(nil)

// NewStage wires a provider into the chunked translation workflow.
func NewStage(provider Provider, opts Options) *Stage {
	size := opts.ChunkSize
	if size <= 0 {
		size = provider.DefaultChunkSize()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Stage{
		provider:    provider,
		chunkSize:   size,
		concurrency: concurrency,
		policy:      opts.Retry,
		logger:      opts.Logger,
	}
}

// Translate splits text at the provider's chunk boundary, translates chunks
// concurrently, and concatenates the results joined by single spaces in
// chunk-index order. If any chunk exhausts retries the stage fails with
// domain.PartialTranslationError carrying the first failed index and the
// prefix translated before it.
func (s *Stage) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	chunks, err := chunk.Collect(text, s.chunkSize)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", nil
	}

	s.debug("translate start",
		"provider", s.provider.Name(),
		"chunks", len(chunks),
		"source", sourceLang,
		"target", targetLang)

	results := make([]string, len(chunks))
	failures := make([]error, len(chunks))

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return "", fmt.Errorf("translation pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], failures[i] = s.translateChunk(ctx, c, sourceLang, targetLang)
		})
		if submitErr != nil {
			failures[i] = fmt.Errorf("submit chunk %d: %w", i, submitErr)
			wg.Done()
		}
	}
	wg.Wait()

	for i, failure := range failures {
		if failure != nil {
			translated := make([]string, i)
			copy(translated, results[:i])
			return "", &domain.PartialTranslationError{
				FailedChunk: i,
				Translated:  translated,
				Cause:       failure,
			}
		}
	}

	return strings.Join(results, " "), nil
}

func (s *Stage) translateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var out string
	err := retry.Do(ctx, s.policy, func() error {
		var callErr error
		out, callErr = s.provider.TranslateChunk(ctx, text, sourceLang, targetLang)
		return callErr
	}, s.provider.Retryable)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *Stage) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
