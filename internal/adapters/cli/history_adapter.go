package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/francisjervis/nyc-db/internal/ports/primary"
)

// HistoryAdapter translates CLI operations to HistoryService calls.
type HistoryAdapter struct {
	service primary.HistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.HistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List lists recorded runs, newest first.
func (a *HistoryAdapter) List(ctx context.Context, dataset string, limit int) error {
	entries, err := a.service.ListHistory(ctx, primary.HistoryFilters{
		Dataset: dataset,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-7s %-24s %-8s %s\n", "WHEN", "ACTION", "DATASET", "REGIONS", "SOURCE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-20s %-7s %-24s %-8d %s\n", e.CreatedAt, e.Action, e.Dataset, e.Regions, e.Source)
	}
	fmt.Fprintln(a.out)

	return nil
}
