package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultCatalogRefreshSchedule reloads the menu every five minutes.
const DefaultCatalogRefreshSchedule = "@every 5m"

const catalogRefreshTimeout = 30 * time.Second

// CatalogRefresher reloads the cached menu catalog. Implemented by
// catalogcache.Cache.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshJob reloads the menu catalog on a cron schedule so prices
// changed in the store reach new orders without waiting for the cache TTL.
type CatalogRefreshJob struct {
	refresher CatalogRefresher
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewCatalogRefreshJob creates the job. An empty schedule means
// DefaultCatalogRefreshSchedule.
func NewCatalogRefreshJob(refresher CatalogRefresher, schedule string, logger *slog.Logger) *CatalogRefreshJob {
	if schedule == "" {
		schedule = DefaultCatalogRefreshSchedule
	}
	return &CatalogRefreshJob{
		refresher: refresher,
		schedule:  schedule,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "catalog_refresh_job"),
	}
}

// Start schedules the job. It fails when the schedule does not parse.
func (j *CatalogRefreshJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), catalogRefreshTimeout)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Catalog refresh job started", "schedule", j.schedule)
	return nil
}

// RunOnce reloads the catalog now. Failures are logged; the cache keeps
// serving its previous snapshot.
func (j *CatalogRefreshJob) RunOnce(ctx context.Context) {
	started := time.Now()
	if err := j.refresher.Refresh(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Catalog refresh failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Catalog refreshed", "took", time.Since(started))
}

// Stop stops the schedule and waits for a running refresh to finish.
func (j *CatalogRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Catalog refresh job stopped")
}
