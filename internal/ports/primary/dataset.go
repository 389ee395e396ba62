package primary

import (
	"context"

	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

// DatasetService defines the primary port for one dataset's scaffold. Create
// and Undo are both idempotent.
type DatasetService interface {
	// Create writes the standalone files and appends the shared blocks,
	// undoing any previous scaffold of the same dataset first.
	Create(ctx context.Context) error

	// Undo deletes the standalone files and removes the shared blocks.
	Undo(ctx context.Context) error

	// Plan returns the effects Create or Undo would execute, without running them.
	Plan(ctx context.Context, action string) ([]effects.Effect, error)

	// Result returns the generated artifacts and their target files.
	Result() *scaffold.GeneratorResult
}

// HistoryService defines the primary port for reading scaffold history.
type HistoryService interface {
	ListHistory(ctx context.Context, filters HistoryFilters) ([]*HistoryEntry, error)
}

// HistoryFilters contains filter options for listing history.
type HistoryFilters struct {
	Dataset string
	Limit   int
}

// HistoryEntry is one recorded create or undo run.
type HistoryEntry struct {
	RunID     string
	Dataset   string
	Action    string
	Source    string
	CreatedAt string
	Regions   int // shared-file regions currently registered for the dataset
}
