// Package jobs provides scheduled background tasks for the ordering service.
//
// Jobs are built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// CatalogRefreshJob reloads the menu catalog into the in-memory cache on the
// CATALOG_REFRESH_SCHEDULE cron spec (default "@every 5m"). Overlapping runs
// are skipped.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(catalogCache, cfg.CatalogRefreshSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed refresh is logged and the cache keeps its previous snapshot, so
// placement keeps working while the store is briefly unreachable.
package jobs
