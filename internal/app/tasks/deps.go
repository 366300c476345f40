// Package tasks implements the scheduled maintenance tasks of the history store.
package tasks

import (
	"log/slog"

	"github.com/edgard/careeradvisor/internal/config"
	"github.com/edgard/careeradvisor/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
