package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append persists a history entry.
func (r *HistoryRepository) Append(ctx context.Context, record *secondary.HistoryRecord) error {
	if record.ID == "" {
		record.ID = "RUN-" + uuid.NewString()
	}

	var source sql.NullString
	if record.Source != "" {
		source = sql.NullString{String: record.Source, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO scaffold_history (id, run_id, dataset, action, source) VALUES (?, ?, ?, ?, ?)",
		record.ID, record.RunID, record.Dataset, record.Action, source,
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// List retrieves the most recent entries first, optionally filtered by dataset.
// A non-positive limit returns every entry.
func (r *HistoryRepository) List(ctx context.Context, dataset string, limit int) ([]*secondary.HistoryRecord, error) {
	query := "SELECT id, run_id, dataset, action, source, created_at FROM scaffold_history"
	var args []any
	if dataset != "" {
		query += " WHERE dataset = ?"
		args = append(args, dataset)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []*secondary.HistoryRecord
	for rows.Next() {
		var (
			source    sql.NullString
			createdAt time.Time
		)
		record := &secondary.HistoryRecord{}
		if err := rows.Scan(&record.ID, &record.RunID, &record.Dataset, &record.Action, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		record.Source = source.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, record)
	}

	return records, rows.Err()
}

var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
