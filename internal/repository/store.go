package store

import (
	"context"

	"github.com/voxlab/assistant/internal/domain"
)

// Store is the persistence contract for the conversation log and the usage
// ledger. Both record sets are append-only; implementations must make each
// individual append atomic.
type Store interface {
	// AppendTurn persists one turn, assigning its ID and timestamp. It
	// returns an error wrapping domain.ErrStoreUnavailable if the write
	// fails; a failed append never leaves a partial row behind.
	AppendTurn(ctx context.Context, role domain.Role, content string) (*domain.Turn, error)

	// RecentTurns returns the last limit turns in chronological order
	// (oldest first). A limit <= 0 yields an empty slice.
	RecentTurns(ctx context.Context, limit int) ([]domain.Turn, error)

	// RecordUsage computes the cost for one completion call and appends a
	// usage record.
	RecordUsage(ctx context.Context, model string, promptTokens, completionTokens int) (*domain.UsageRecord, error)

	// UsageTotals sums tokens and cost across all usage records. It is
	// computed fresh from the records on every call.
	UsageTotals(ctx context.Context) (*domain.Totals, error)

	Close() error
}
