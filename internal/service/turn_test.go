package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/assistant/internal/adapter/llm"
	"github.com/voxlab/assistant/internal/adapter/search"
	"github.com/voxlab/assistant/internal/config"
	"github.com/voxlab/assistant/internal/domain"
	store "github.com/voxlab/assistant/internal/repository"
)

// stubLLM returns a canned response (or error) and records the last request.
type stubLLM struct {
	resp    *llm.ChatCompletionResponse
	err     error
	lastReq *llm.ChatCompletionRequest
}

func (s *stubLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// stubSearch returns canned snippets or an error.
type stubSearch struct {
	snippets []search.Snippet
	err      error
}

func (s *stubSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Snippet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snippets, nil
}

func completionResponse(content string, promptTokens, completionTokens int) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4",
		Choices: []llm.Choice{
			{Index: 0, Message: &llm.ChatMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: &llm.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Model:            "gpt-4",
		LLMTimeout:       time.Second,
		SearchTimeout:    time.Second,
		SearchMaxResults: 3,
		SystemPrompt:     "You are a test assistant.",
		HistoryWindow:    10,
		Pricing: domain.Pricing{
			PromptPer1K:     decimal.RequireFromString("0.03"),
			CompletionPer1K: decimal.RequireFromString("0.06"),
		},
	}
}

func newTestStore(t *testing.T, cfg *config.Config) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:", cfg.Pricing)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHandleTurnSuccess(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{resp: completionResponse("4", 10, 1)}
	svc := New(db, client, nil, cfg)

	reply, err := svc.HandleTurn(ctx, "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", reply)

	turns, err := db.RecentTurns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "What is 2+2?", turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
	assert.Equal(t, "4", turns[1].Content)

	totals, err := db.UsageTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, totals.PromptTokens)
	assert.Equal(t, 1, totals.CompletionTokens)
	// 10/1000*0.03 + 1/1000*0.06
	assert.True(t, totals.Cost.Equal(decimal.RequireFromString("0.00036")),
		"unexpected cost %s", totals.Cost)
}

func TestHandleTurnEmptyInput(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{resp: completionResponse("should not be called", 1, 1)}
	svc := New(db, client, nil, cfg)

	for _, input := range []string{"", "   \n\t"} {
		_, err := svc.HandleTurn(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", input)
	}

	assert.Nil(t, client.lastReq, "model must not be called for invalid input")

	turns, err := db.RecentTurns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)

	totals, err := db.UsageTotals(ctx)
	require.NoError(t, err)
	assert.True(t, totals.Cost.IsZero())
}

func TestHandleTurnModelFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{err: errors.New("connection refused")}
	svc := New(db, client, nil, cfg)

	_, err := svc.HandleTurn(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrModelUnavailable)

	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	assert.Empty(t, turns, "no turns may be persisted when the model call fails")

	totals, dbErr := db.UsageTotals(ctx)
	require.NoError(t, dbErr)
	assert.Zero(t, totals.PromptTokens)
	assert.Zero(t, totals.CompletionTokens)
}

func TestHandleTurnEmptyChoicesIsModelFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{resp: &llm.ChatCompletionResponse{Model: "gpt-4"}}
	svc := New(db, client, nil, cfg)

	_, err := svc.HandleTurn(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrModelUnavailable)

	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	assert.Empty(t, turns)
}

func TestHandleTurnSearchFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{resp: completionResponse("still fine", 5, 2)}
	svc := New(db, client, &stubSearch{err: errors.New("quota exhausted")}, cfg)

	reply, err := svc.HandleTurn(ctx, "what happened today?")
	require.NoError(t, err)
	assert.Equal(t, "still fine", reply)

	turns, dbErr := db.RecentTurns(ctx, 10)
	require.NoError(t, dbErr)
	assert.Len(t, turns, 2)
}

func TestHandleTurnIncludesSnippets(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	db := newTestStore(t, cfg)
	client := &stubLLM{resp: completionResponse("augmented", 5, 2)}
	provider := &stubSearch{snippets: []search.Snippet{
		{Title: "Weather report", URL: "https://example.com/wx", Excerpt: "Sunny, 21C"},
	}}
	svc := New(db, client, provider, cfg)

	_, err := svc.HandleTurn(ctx, "what's the weather?")
	require.NoError(t, err)

	require.NotNil(t, client.lastReq)
	msgs := client.lastReq.Messages
	// system, snippet block, user input (empty history)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].Role)
	assert.NotContains(t, msgs[0].Content, "Weather report")

	ref := msgs[1]
	assert.Equal(t, "system", ref.Role)
	assert.Contains(t, ref.Content, "Weather report")
	assert.Contains(t, ref.Content, "Sunny, 21C")
	assert.Contains(t, ref.Content, "not instructions")

	assert.Equal(t, "what's the weather?", msgs[2].Content)
}

func TestHandleTurnHistoryWindow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.HistoryWindow = 2
	db := newTestStore(t, cfg)

	for i := 0; i < 5; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		_, err := db.AppendTurn(ctx, role, fmt.Sprintf("old turn %d", i))
		require.NoError(t, err)
	}

	client := &stubLLM{resp: completionResponse("windowed", 5, 2)}
	svc := New(db, client, nil, cfg)

	_, err := svc.HandleTurn(ctx, "latest question")
	require.NoError(t, err)

	require.NotNil(t, client.lastReq)
	msgs := client.lastReq.Messages
	// system + 2 history turns + new user input
	require.Len(t, msgs, 4)
	assert.Equal(t, "old turn 3", msgs[1].Content)
	assert.Equal(t, "old turn 4", msgs[2].Content)
	assert.Equal(t, "latest question", msgs[3].Content)
}
