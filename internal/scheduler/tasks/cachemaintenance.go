package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/scheduler"
)

const CacheMaintenanceTaskID = "cache-maintenance"

// Purger drops expired cache entries and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RegisterCacheMaintenanceTask registers the task that purges expired
// keywords and in-memory lookups. The resolution cache itself never expires.
func RegisterCacheMaintenanceTask(sched *scheduler.Scheduler, purger Purger, cron string, logger zerolog.Logger) error {
	log := logger.With().Str("component", "cache-maintenance").Logger()
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          CacheMaintenanceTaskID,
		Name:        "Cache Maintenance",
		Description: "Purges expired supplemental keywords and web lookup caches",
		Cron:        cron,
		Func: func(ctx context.Context) error {
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			log.Info().Int64("purged", n).Msg("Purged expired cache entries")
			return nil
		},
	})
}
