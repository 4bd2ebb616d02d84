package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Purger drops expired cache entries.
type Purger interface {
	PurgeCache(ctx context.Context) (int, error)
}

// CacheJanitor purges expired validation results on a cron schedule.
type CacheJanitor struct {
	logger *slog.Logger
	purger Purger
	cron   *cron.Cron
}

func NewCacheJanitor(logger *slog.Logger, purger Purger, schedule string) (*CacheJanitor, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cache purge schedule '%s': %w", schedule, err)
	}

	j := &CacheJanitor{
		logger: logger.With("module", "cache_janitor"),
		purger: purger,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
	}

	if _, err := j.cron.AddFunc(schedule, func() { j.Purge(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule cache purge: %w", err)
	}

	return j, nil
}

func (j *CacheJanitor) Start() {
	j.cron.Start()
}

// Stop waits for a running purge to finish.
func (j *CacheJanitor) Stop() {
	<-j.cron.Stop().Done()
}

// Purge runs one purge pass.
func (j *CacheJanitor) Purge(ctx context.Context) {
	purged, err := j.purger.PurgeCache(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to purge cache", "error", err)

		return
	}

	if purged > 0 {
		j.logger.DebugContext(ctx, "Purged expired cache entries", "count", purged)
	}
}
