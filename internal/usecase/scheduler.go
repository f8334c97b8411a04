package usecase

import (
	"context"
	"log/slog"
	"time"

	"ContentHarvester/internal/ports"
)

// Scheduler wires the cron-like driver with recurring harvest runs.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	query    string
	topicID  int64
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring harvests of one
// configured query.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, query string, topicID int64, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, query: query, topicID: topicID, logger: logger}
}

// Start registers the harvest job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		results, err := s.pipeline.ProcessQuery(ctx, s.query, s.topicID)
		if err != nil && s.logger != nil {
			s.logger.Error("scheduled harvest failed", "trigger", trigger, "error", err)
			return
		}
		if s.logger != nil {
			s.logger.Info("scheduled harvest done", "trigger", trigger, "articles", len(results))
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
