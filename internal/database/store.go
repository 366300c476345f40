package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the request history operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveAdviceRecord inserts an advice exchange and sets its ID.
	SaveAdviceRecord(ctx context.Context, record *AdviceRecord) error

	// SaveChatRecord inserts a chat exchange and sets its ID.
	SaveChatRecord(ctx context.Context, record *ChatRecord) error

	// ListAdviceRecords returns up to limit advice records, newest first.
	ListAdviceRecords(ctx context.Context, limit int) ([]AdviceRecord, error)

	// ListChatRecords returns up to limit chat records, newest first.
	ListChatRecords(ctx context.Context, limit int) ([]ChatRecord, error)

	// PruneBefore deletes every record created before cutoff and reports how many were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

const maxListLimit = 1000

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveAdviceRecord(ctx context.Context, record *AdviceRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil advice record")
	}
	if record.Status == "" {
		return fmt.Errorf("advice record must have a status")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO advice_records (created_at, request_id, profile, status, response, error, duration_ms)
        VALUES (:created_at, :request_id, :profile, :status, :response, :error, :duration_ms);
    `
	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving advice record", "status", record.Status, "error", err)
		return fmt.Errorf("failed to save advice record: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving advice record", "error", err)
	}

	s.logger.DebugContext(ctx, "Advice record saved", "record_id", record.ID, "status", record.Status)
	return nil
}

func (s *sqlxStore) SaveChatRecord(ctx context.Context, record *ChatRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil chat record")
	}
	if record.Status == "" {
		return fmt.Errorf("chat record must have a status")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO chat_records (created_at, request_id, history_turns, message, status, reply, error, duration_ms)
        VALUES (:created_at, :request_id, :history_turns, :message, :status, :reply, :error, :duration_ms);
    `
	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat record", "status", record.Status, "error", err)
		return fmt.Errorf("failed to save chat record: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving chat record", "error", err)
	}

	s.logger.DebugContext(ctx, "Chat record saved", "record_id", record.ID, "status", record.Status)
	return nil
}

func (s *sqlxStore) ListAdviceRecords(ctx context.Context, limit int) ([]AdviceRecord, error) {
	limit = clampLimit(limit)

	records := []AdviceRecord{}
	query := `
        SELECT id, created_at, request_id, profile, status, response, error, duration_ms
        FROM advice_records
        ORDER BY id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing advice records", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list advice records: %w", err)
	}
	return records, nil
}

func (s *sqlxStore) ListChatRecords(ctx context.Context, limit int) ([]ChatRecord, error) {
	limit = clampLimit(limit)

	records := []ChatRecord{}
	query := `
        SELECT id, created_at, request_id, history_turns, message, status, reply, error, duration_ms
        FROM chat_records
        ORDER BY id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing chat records", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list chat records: %w", err)
	}
	return records, nil
}

// PruneBefore deletes old advice and chat records in a single transaction.
func (s *sqlxStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var total int64
	for _, table := range []string{"advice_records", "chat_records"} {
		result, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE created_at < ?;", cutoff.UTC())
		if err != nil {
			s.logger.ErrorContext(ctx, "Error pruning records", "table", table, "error", err)
			return 0, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		if affected, err := result.RowsAffected(); err == nil {
			total += affected
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Pruned history records", "cutoff", cutoff, "deleted", total)
	return total, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	startTime := time.Now()
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(startTime))
	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
