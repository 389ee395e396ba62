package app

import (
	"context"
	"fmt"

	"github.com/francisjervis/nyc-db/internal/ports/primary"
	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	historyRepo secondary.HistoryRepository
	regionRepo  secondary.RegionRepository
}

var _ primary.HistoryService = (*HistoryServiceImpl)(nil)

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(historyRepo secondary.HistoryRepository, regionRepo secondary.RegionRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		historyRepo: historyRepo,
		regionRepo:  regionRepo,
	}
}

// ListHistory returns recorded runs, newest first, with the number of shared
// regions each dataset currently has registered.
func (s *HistoryServiceImpl) ListHistory(ctx context.Context, filters primary.HistoryFilters) ([]*primary.HistoryEntry, error) {
	records, err := s.historyRepo.List(ctx, filters.Dataset, filters.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	regionCounts := make(map[string]int)
	entries := make([]*primary.HistoryEntry, len(records))
	for i, r := range records {
		count, ok := regionCounts[r.Dataset]
		if !ok {
			regions, err := s.regionRepo.List(ctx, r.Dataset)
			if err != nil {
				return nil, fmt.Errorf("failed to list regions for %s: %w", r.Dataset, err)
			}
			count = len(regions)
			regionCounts[r.Dataset] = count
		}
		entries[i] = &primary.HistoryEntry{
			RunID:     r.RunID,
			Dataset:   r.Dataset,
			Action:    r.Action,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
			Regions:   count,
		}
	}
	return entries, nil
}
