// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// RegionRepository implements secondary.RegionRepository with SQLite.
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository creates a new SQLite region repository.
func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// Record persists a region, replacing any earlier region of the same dataset
// in the same file.
func (r *RegionRepository) Record(ctx context.Context, region *secondary.RegionRecord) error {
	if region.ID == "" {
		region.ID = "REGION-" + uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO splice_regions (id, run_id, dataset, path, byte_offset, length, checksum)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (dataset, path) DO UPDATE SET
			id = excluded.id,
			run_id = excluded.run_id,
			byte_offset = excluded.byte_offset,
			length = excluded.length,
			checksum = excluded.checksum,
			created_at = CURRENT_TIMESTAMP`,
		region.ID, region.RunID, region.Dataset, region.Path, region.Offset, region.Length, region.Checksum,
	)
	if err != nil {
		return fmt.Errorf("failed to record region: %w", err)
	}

	return nil
}

// Find retrieves the region of a dataset in a file, or nil if none is recorded.
func (r *RegionRepository) Find(ctx context.Context, dataset, path string) (*secondary.RegionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, run_id, dataset, path, byte_offset, length, checksum, created_at
		 FROM splice_regions WHERE dataset = ? AND path = ?`,
		dataset, path,
	)

	record, err := scanRegion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return record, nil
}

// Forget removes the region of a dataset in a file. Forgetting an unknown
// region is not an error.
func (r *RegionRepository) Forget(ctx context.Context, dataset, path string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM splice_regions WHERE dataset = ? AND path = ?",
		dataset, path,
	)
	if err != nil {
		return fmt.Errorf("failed to forget region: %w", err)
	}
	return nil
}

// List retrieves regions, optionally filtered by dataset.
func (r *RegionRepository) List(ctx context.Context, dataset string) ([]*secondary.RegionRecord, error) {
	query := `SELECT id, run_id, dataset, path, byte_offset, length, checksum, created_at FROM splice_regions`
	var args []any
	if dataset != "" {
		query += " WHERE dataset = ?"
		args = append(args, dataset)
	}
	query += " ORDER BY dataset, path"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var regions []*secondary.RegionRecord
	for rows.Next() {
		record, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, record)
	}

	return regions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegion(s scanner) (*secondary.RegionRecord, error) {
	var createdAt time.Time
	record := &secondary.RegionRecord{}
	err := s.Scan(&record.ID, &record.RunID, &record.Dataset, &record.Path,
		&record.Offset, &record.Length, &record.Checksum, &createdAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

var _ secondary.RegionRepository = (*RegionRepository)(nil)
