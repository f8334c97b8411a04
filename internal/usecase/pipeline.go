package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
	"ContentHarvester/internal/retry"
)

// PipelineDeps wires all driven adapters into the harvest pipeline.
type PipelineDeps struct {
	Subtitles  ports.SubtitleSource
	Translator ports.Translator
	Rewriter   ports.Rewriter
	Store      ports.ProvenanceStore
	Search     ports.VideoSearch
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// PipelineConfig carries externally supplied run parameters. Nothing here is
// hard-coded; defaults vary across providers and deployments.
type PipelineConfig struct {
	PreferredLanguage string
	FallbackLanguage  string
	TranslatorName    string
	AcquireRetry      retry.Policy
	MaxResults        int
}

// RunRequest identifies one content item to process.
type RunRequest struct {
	VideoID     string
	Title       string
	Description string
	TopicID     int64
}

// RunResult reports the final article and the provenance rows created.
type RunResult struct {
	Article      string
	Language     string
	UsedFallback bool
	TextID       int64
	VideoRowID   int64
	TranslateID  int64
	RewriteID    int64
}

// Pipeline sequences acquisition, translation, rewrite, and persistence for
// one content identifier. It is the sole place deciding fallback branching
// versus termination.
type Pipeline struct {
	subtitles  ports.SubtitleSource
	translator ports.Translator
	rewriter   ports.Rewriter
	store      ports.ProvenanceStore
	search     ports.VideoSearch
	notifier   ports.Notifier
	logger     *slog.Logger
	cfg        PipelineConfig
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		subtitles:  deps.Subtitles,
		translator: deps.Translator,
		rewriter:   deps.Rewriter,
		store:      deps.Store,
		search:     deps.Search,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// ProcessVideo runs the pipeline for one video: acquire text in the preferred
// language, fall back to the fallback language plus translation when absent,
// rewrite into an article, and persist provenance after each stage. When both
// languages fail the run terminates without writing any row.
func (p *Pipeline) ProcessVideo(ctx context.Context, req RunRequest) (*RunResult, error) {
	log := p.log().With("run_id", uuid.NewString(), "video_id", req.VideoID)

	// Check before acquisition: a re-run over known videos must not fetch
	// transcripts again or leave orphan original_texts rows behind.
	exists, err := p.store.VideoExists(ctx, req.VideoID)
	if err != nil {
		return nil, fmt.Errorf("check video %s: %w", req.VideoID, err)
	}
	if exists {
		return nil, fmt.Errorf("video %s already harvested: %w", req.VideoID, domain.ErrIntegrity)
	}

	transcript, usedFallback, err := p.acquireWithFallback(ctx, req.VideoID, log)
	if err != nil {
		return nil, err
	}

	targetLangID, err := p.store.GetOrCreateLanguage(ctx, p.cfg.PreferredLanguage)
	if err != nil {
		return nil, fmt.Errorf("persist target language: %w", err)
	}
	sourceLangID := targetLangID
	if usedFallback {
		sourceLangID, err = p.store.GetOrCreateLanguage(ctx, p.cfg.FallbackLanguage)
		if err != nil {
			return nil, fmt.Errorf("persist source language: %w", err)
		}
	}

	now := time.Now().UTC()
	textID, err := p.store.Insert(ctx, domain.OriginalText{
		LanguageID: sourceLangID,
		Text:       transcript.Text,
		TopicID:    req.TopicID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("persist original text: %w", err)
	}

	videoRowID, err := p.store.Insert(ctx, domain.Video{
		ExternalID:  req.VideoID,
		Title:       firstNonEmpty(req.Title, transcript.Title),
		Description: firstNonEmpty(req.Description, transcript.Description),
		TopicID:     req.TopicID,
		TextID:      textID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("persist video: %w", err)
	}

	source := transcript.Text
	var translateID int64
	if usedFallback {
		translated, err := p.translator.Translate(ctx, transcript.Text, p.cfg.FallbackLanguage, p.cfg.PreferredLanguage)
		if err != nil {
			return nil, fmt.Errorf("translate %s to %s: %w", p.cfg.FallbackLanguage, p.cfg.PreferredLanguage, err)
		}

		translatorID, err := p.store.GetOrCreateTranslator(ctx, p.cfg.TranslatorName)
		if err != nil {
			return nil, fmt.Errorf("persist translator: %w", err)
		}

		translateID, err = p.store.Insert(ctx, domain.Translate{
			TextID:         textID,
			LanguageID:     targetLangID,
			TranslatedText: translated,
			TranslatorID:   translatorID,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("persist translation: %w", err)
		}

		source = translated
		log.Debug("translation persisted", "translate_id", translateID, "chars", len(translated))
	}

	article, err := p.rewriter.Rewrite(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("rewrite video %s: %w", req.VideoID, err)
	}

	rewriteID, err := p.store.Insert(ctx, domain.Rewrite{
		Text:        article,
		LanguageID:  targetLangID,
		TranslateID: translateID,
		TopicID:     req.TopicID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("persist rewrite: %w", err)
	}

	log.Info("pipeline run complete",
		"used_fallback", usedFallback,
		"text_id", textID,
		"rewrite_id", rewriteID,
		"article_len", len(article))

	if p.notifier != nil {
		if err := p.notifier.PublishArticle(ctx, firstNonEmpty(req.Title, transcript.Title), article); err != nil {
			log.Warn("notify failed", "error", err)
		}
	}

	return &RunResult{
		Article:      article,
		Language:     p.cfg.PreferredLanguage,
		UsedFallback: usedFallback,
		TextID:       textID,
		VideoRowID:   videoRowID,
		TranslateID:  translateID,
		RewriteID:    rewriteID,
	}, nil
}

// ProcessQuery discovers videos for a topic query and runs the pipeline for
// each. Videos already harvested (duplicate external id) are skipped; any
// other failure stops the batch.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string, topicID int64) ([]RunResult, error) {
	if p.search == nil {
		return nil, fmt.Errorf("video search is not configured")
	}

	hits, err := p.search.Search(ctx, query, p.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	log := p.log().With("query", query)
	log.Debug("discovery done", "hits", len(hits))

	var results []RunResult
	for _, hit := range hits {
		res, err := p.ProcessVideo(ctx, RunRequest{
			VideoID:     hit.ID,
			Title:       hit.Title,
			Description: hit.Description,
			TopicID:     topicID,
		})
		switch {
		case err == nil:
			results = append(results, *res)
		case errors.Is(err, domain.ErrIntegrity):
			log.Info("video already harvested", "video_id", hit.ID)
		case errors.Is(err, domain.ErrNoTranscript), errors.Is(err, domain.ErrSubtitlesDisabled):
			log.Info("video has no usable transcript", "video_id", hit.ID, "reason", err)
		default:
			return results, fmt.Errorf("process video %s: %w", hit.ID, err)
		}
	}

	return results, nil
}

// acquireWithFallback fetches the transcript in the preferred language and,
// when no transcript exists there, retries in the fallback language. Each
// fetch is retried on transient failures only.
func (p *Pipeline) acquireWithFallback(ctx context.Context, videoID string, log *slog.Logger) (domain.Transcript, bool, error) {
	transcript, err := p.acquire(ctx, videoID, p.cfg.PreferredLanguage)
	if err == nil {
		log.Debug("acquired preferred-language transcript", "language", transcript.Language)
		return transcript, false, nil
	}
	if !expectedMiss(err) {
		return domain.Transcript{}, false, fmt.Errorf("acquire %s: %w", p.cfg.PreferredLanguage, err)
	}

	log.Debug("preferred language unavailable, trying fallback",
		"preferred", p.cfg.PreferredLanguage,
		"fallback", p.cfg.FallbackLanguage,
		"reason", err)

	transcript, err = p.acquire(ctx, videoID, p.cfg.FallbackLanguage)
	if err != nil {
		return domain.Transcript{}, false, fmt.Errorf("acquire %s: %w", p.cfg.FallbackLanguage, err)
	}

	return transcript, true, nil
}

func (p *Pipeline) acquire(ctx context.Context, videoID, language string) (domain.Transcript, error) {
	var transcript domain.Transcript
	err := retry.Do(ctx, p.cfg.AcquireRetry, func() error {
		var fetchErr error
		transcript, fetchErr = p.subtitles.Fetch(ctx, videoID, language)
		return fetchErr
	}, domain.IsTransient)
	if err != nil {
		return domain.Transcript{}, err
	}
	return transcript, nil
}

// expectedMiss reports whether err is an expected acquisition outcome that
// warrants the fallback branch rather than termination.
func expectedMiss(err error) bool {
	return errors.Is(err, domain.ErrNoTranscript) || errors.Is(err, domain.ErrSubtitlesDisabled)
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.New(slog.DiscardHandler)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
