package tasks

import (
	"context"
	"fmt"
	"time"
)

const pruneTimeout = 2 * time.Minute

// newHistoryPruneTask deletes history records older than history.retention.
// A zero retention keeps everything.
func newHistoryPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "history_prune")

	return func(ctx context.Context) error {
		retention := deps.Config.History.Retention
		if retention <= 0 {
			log.DebugContext(ctx, "History retention disabled, skipping prune")
			return nil
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, pruneTimeout)
		defer cancel()

		cutoff := time.Now().UTC().Add(-retention)
		deleted, err := deps.Store.PruneBefore(timeoutCtx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "History prune failed", "cutoff", cutoff, "error", err)
			return fmt.Errorf("history prune failed: %w", err)
		}

		log.InfoContext(ctx, "History prune completed", "cutoff", cutoff, "deleted", deleted)
		return nil
	}
}
