package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
)

// Purger drops expired entries from an in-process cache.
type Purger interface {
	PurgeExpired() int
}

// Pruner deletes persisted rollups dated strictly before cutoff (YYYY-MM-DD).
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff string) (int64, error)
}

// PurgeCache returns a job that evicts expired cached rollups.
func PurgeCache(p Purger, log *slog.Logger) Job {
	return func(context.Context) error {
		if n := p.PurgeExpired(); n > 0 {
			log.Debug("purged cached rollups", "count", n)
		}
		return nil
	}
}

// PruneRollups returns a job that deletes stored rollups older than retentionDays.
func PruneRollups(p Pruner, retentionDays int, now func() time.Time, loc *time.Location, log *slog.Logger) Job {
	return func(ctx context.Context) error {
		cutoff := RetentionCutoff(now(), retentionDays, loc)
		n, err := p.PruneBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune rollups before %s: %w", cutoff, err)
		}
		if n > 0 {
			log.Info("pruned stored rollups", "before", cutoff, "count", n)
		}
		return nil
	}
}

// RetentionCutoff is the first date kept when retaining retentionDays days up to and including now.
func RetentionCutoff(now time.Time, retentionDays int, loc *time.Location) string {
	return progress.DayOf(now, loc).AddDays(-(retentionDays - 1)).Key()
}
