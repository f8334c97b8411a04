package app

import (
	"context"
	"fmt"
	"log/slog"

	"ContentHarvester/internal/config"
	"ContentHarvester/internal/infrastructure/llm"
	"ContentHarvester/internal/infrastructure/scheduler"
	"ContentHarvester/internal/infrastructure/search"
	"ContentHarvester/internal/infrastructure/storage"
	"ContentHarvester/internal/infrastructure/subtitles"
	"ContentHarvester/internal/infrastructure/telegram"
	"ContentHarvester/internal/infrastructure/translator"
	"ContentHarvester/internal/logging"
	"ContentHarvester/internal/ports"
	"ContentHarvester/internal/retry"
	"ContentHarvester/internal/rewrite"
	"ContentHarvester/internal/translate"
	"ContentHarvester/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	store    *storage.SQLiteStore
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance from resolved configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	registry := translate.NewRegistry()
	registry.Register(translator.NewMyMemory(cfg.Translate.MyMemory.Endpoint, nil))
	registry.Register(translator.NewYandex(cfg.Translate.Yandex.Endpoint, cfg.Translate.Yandex.APIKey, nil))

	provider, err := registry.Resolve(cfg.Translate.Provider)
	if err != nil {
		return nil, err
	}

	retryPolicy := retry.Policy{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
		BaseBackoff: cfg.Pipeline.BackoffBase(),
	}

	translationStage := translate.NewStage(provider, translate.Options{
		ChunkSize:   cfg.Translate.ChunkSize,
		Concurrency: cfg.Translate.Concurrency,
		Retry:       retryPolicy,
		Logger:      baseLogger.With("component", "translate"),
	})

	rewriteStage, err := rewrite.NewStage(llm.NewChatGPTClient(llm.Config{
		Endpoint:     cfg.ChatGPT.Endpoint,
		Model:        cfg.ChatGPT.Model,
		APIKey:       cfg.ChatGPT.APIKey,
		SystemPrompt: cfg.ChatGPT.SystemPrompt,
	}), rewrite.Options{
		Template:    cfg.ChatGPT.InstructionTemplate,
		MaxTokens:   cfg.ChatGPT.MaxTokens,
		Temperature: cfg.ChatGPT.Temperature,
		Logger:      baseLogger.With("component", "rewrite"),
	})
	if err != nil {
		return nil, fmt.Errorf("configure rewrite stage: %w", err)
	}

	var discovery ports.VideoSearch
	if cfg.YouTube.APIKey != "" {
		discovery = search.NewClient(cfg.YouTube.SearchURL, cfg.YouTube.APIKey, nil)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Subtitles:  subtitles.NewClient(cfg.YouTube.WatchURL, nil, baseLogger.With("component", "subtitles")),
		Translator: translationStage,
		Rewriter:   rewriteStage,
		Store:      store,
		Search:     discovery,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	}, usecase.PipelineConfig{
		PreferredLanguage: cfg.Pipeline.PreferredLanguage,
		FallbackLanguage:  cfg.Pipeline.FallbackLanguage,
		TranslatorName:    provider.Name(),
		AcquireRetry:      retryPolicy,
		MaxResults:        cfg.YouTube.MaxResults,
	})

	return &Application{cfg: cfg, store: store, pipeline: pipeline, logger: baseLogger}, nil
}

// Run ensures the schema and executes harvesting: once immediately, or on the
// configured cron schedule until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()

	if err := a.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	if a.cfg.Scheduler.CronExpression == "" {
		results, err := a.pipeline.ProcessQuery(ctx, a.cfg.Harvest.Query, a.cfg.Pipeline.TopicID)
		if err != nil {
			return err
		}
		a.logger.Info("harvest done", "articles", len(results))
		return nil
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	recurring := usecase.NewScheduler(driver, a.pipeline, a.cfg.Harvest.Query, a.cfg.Pipeline.TopicID,
		a.logger.With("component", "scheduler"))

	if err := recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return recurring.Stop(context.Background())
}
