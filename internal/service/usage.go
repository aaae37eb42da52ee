package service

import (
	"context"
	"fmt"

	"github.com/voxlab/assistant/internal/domain"
)

// UsageTotals returns the summed token counts and cost across all usage
// records, computed fresh from the ledger.
func (s *Service) UsageTotals(ctx context.Context) (*domain.Totals, error) {
	totals, err := s.store.UsageTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage totals: %w", err)
	}
	return totals, nil
}

// RecentTurns returns the last limit turns in chronological order, for
// front-end history hydration.
func (s *Service) RecentTurns(ctx context.Context, limit int) ([]domain.Turn, error) {
	turns, err := s.store.RecentTurns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	if turns == nil {
		// Keep the JSON shape stable: an empty log serializes as [].
		turns = []domain.Turn{}
	}
	return turns, nil
}
