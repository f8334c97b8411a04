// Package rewrite transforms translated or original text into a
// publication-ready article via a templated instruction and a token budget.
package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
)

// Placeholder is the slot in the instruction template replaced with the
// source text.
const Placeholder = "{text}"

// CompletionClient is the text-generation backend behind the stage.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Options configure a Stage. Template must contain the {text} placeholder and
// Temperature must lie in [0,1]; both are validated at construction so a
// misconfigured stage never reaches a provider.
type Options struct {
	Template    string
	MaxTokens   int
	Temperature float64
	Logger      *slog.Logger
}

// Stage applies the instruction template and normalizes provider output into
// single-paragraph text.
type Stage struct {
	client      CompletionClient
	template    string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

var _ ports.Rewriter = (*Stage)(nil)

// NewStage validates options and wires the completion client.
func NewStage(client CompletionClient, opts Options) (*Stage, error) {
	if !strings.Contains(opts.Template, Placeholder) {
		return nil, fmt.Errorf("%w: missing %s placeholder", domain.ErrInvalidTemplate, Placeholder)
	}
	if opts.Temperature < 0 || opts.Temperature > 1 {
		return nil, fmt.Errorf("%w: temperature %v outside [0,1]", domain.ErrInvalidArgument, opts.Temperature)
	}
	return &Stage{
		client:      client,
		template:    opts.Template,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		logger:      opts.Logger,
	}, nil
}

// Rewrite requests a rewrite of text and post-processes the result. Provider
// faults surface unretried; retrying nondeterministic generation is the
// orchestrator's policy, not this stage's.
func (s *Stage) Rewrite(ctx context.Context, text string) (string, error) {
	prompt := strings.ReplaceAll(s.template, Placeholder, text)

	out, err := s.client.Complete(ctx, prompt, s.maxTokens, s.temperature)
	if err != nil {
		return "", fmt.Errorf("rewrite completion: %w", err)
	}

	article := Normalize(out)
	if s.logger != nil {
		s.logger.Debug("rewrite done", "input_len", len(text), "article_len", len(article))
	}
	return article, nil
}

var periodNewlines = regexp.MustCompile(`\.\n+`)

// Normalize collapses "period + newline" sequences into "period + space" and
// strips all remaining newlines. Downstream publication assumes
// single-paragraph text, so this is part of the stage contract.
func Normalize(text string) string {
	text = periodNewlines.ReplaceAllString(text, ". ")
	return strings.ReplaceAll(text, "\n", "")
}
