package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/assistant/internal/domain"
	store "github.com/voxlab/assistant/internal/repository"
)

// flakyStore wraps a real store and injects failures at chosen points.
type flakyStore struct {
	store.Store
	failAppendAt int // fail the Nth append (1-based); 0 disables
	failUsage    bool
	appends      int
}

func (f *flakyStore) AppendTurn(ctx context.Context, role domain.Role, content string) (*domain.Turn, error) {
	f.appends++
	if f.failAppendAt != 0 && f.appends == f.failAppendAt {
		return nil, fmt.Errorf("%w: injected append failure", domain.ErrStoreUnavailable)
	}
	return f.Store.AppendTurn(ctx, role, content)
}

func (f *flakyStore) RecordUsage(ctx context.Context, model string, promptTokens, completionTokens int) (*domain.UsageRecord, error) {
	if f.failUsage {
		return nil, fmt.Errorf("%w: injected usage failure", domain.ErrStoreUnavailable)
	}
	return f.Store.RecordUsage(ctx, model, promptTokens, completionTokens)
}

func TestHandleTurnUserPersistFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	flaky := &flakyStore{Store: db, failAppendAt: 1}
	client := &stubLLM{resp: completionResponse("reply", 5, 2)}
	svc := New(flaky, client, nil, cfg)

	_, err := svc.HandleTurn(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// The assistant turn must never be attempted without its user turn.
	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	assert.Empty(t, turns)
	assert.Equal(t, 1, flaky.appends)
}

func TestHandleTurnAssistantPersistFailureLeavesDanglingUserTurn(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	flaky := &flakyStore{Store: db, failAppendAt: 2}
	client := &stubLLM{resp: completionResponse("reply", 5, 2)}
	svc := New(flaky, client, nil, cfg)

	_, err := svc.HandleTurn(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// The user turn stays: a dangling user turn is a valid terminal state.
	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleUser, turns[0].Role)

	totals, dbErr := db.UsageTotals(ctx)
	require.NoError(t, dbErr)
	assert.True(t, totals.Cost.IsZero(), "no usage may be recorded for a failed turn")
}

func TestHandleTurnUsageFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	flaky := &flakyStore{Store: db, failUsage: true}
	client := &stubLLM{resp: completionResponse("reply", 5, 2)}
	svc := New(flaky, client, nil, cfg)

	reply, err := svc.HandleTurn(ctx, "hello")
	require.NoError(t, err, "accounting is secondary to conversational continuity")
	assert.Equal(t, "reply", reply)

	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	assert.Len(t, turns, 2)
}
