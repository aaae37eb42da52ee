package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/voxlab/assistant/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	pricing domain.Pricing
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dsn and runs migrations.
// The pricing table is fixed for the lifetime of the store; records written
// under earlier rates keep their original cost.
func NewSQLiteStore(dsn string, pricing domain.Pricing) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db, pricing: pricing}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations. The schema is append-only: there are no
// UPDATE or DELETE paths for either table.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			turn_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at)`,
		`CREATE TABLE IF NOT EXISTS usage_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL UNIQUE,
			model TEXT NOT NULL,
			prompt_tokens INTEGER NOT NULL,
			completion_tokens INTEGER NOT NULL,
			total_tokens INTEGER NOT NULL,
			cost TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendTurn persists one turn. The timestamp is assigned here, at
// persistence time; rowid order is the authoritative turn order.
func (s *SQLiteStore) AppendTurn(ctx context.Context, role domain.Role, content string) (*domain.Turn, error) {
	turn := &domain.Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		turn.TurnID, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: append turn: %v", domain.ErrStoreUnavailable, err)
	}
	return turn, nil
}

// RecentTurns retrieves the last limit turns in chronological order. The
// query walks backwards from the tail and the result is reversed, so the
// returned window is always the most recent turns, oldest first.
func (s *SQLiteStore) RecentTurns(ctx context.Context, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		return []domain.Turn{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_id, role, content, created_at FROM turns ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query turns: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.TurnID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan turn: %v", domain.ErrStoreUnavailable, err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read turns: %v", domain.ErrStoreUnavailable, err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// RecordUsage appends one usage record with its cost derived from the
// pricing table.
func (s *SQLiteStore) RecordUsage(ctx context.Context, model string, promptTokens, completionTokens int) (*domain.UsageRecord, error) {
	rec := &domain.UsageRecord{
		RecordID:         "use_" + uuid.New().String()[:8],
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Cost:             s.pricing.Cost(promptTokens, completionTokens),
		CreatedAt:        time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_records (record_id, model, prompt_tokens, completion_tokens, total_tokens, cost, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RecordID, rec.Model, rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens, rec.Cost.String(), rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: record usage: %v", domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// UsageTotals scans all usage records and sums them. Cost is summed with
// decimal arithmetic so the total is exactly the sum of the stored records.
func (s *SQLiteStore) UsageTotals(ctx context.Context) (*domain.Totals, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt_tokens, completion_tokens, cost FROM usage_records`)
	if err != nil {
		return nil, fmt.Errorf("%w: query usage: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	totals := &domain.Totals{Cost: decimal.Zero}
	for rows.Next() {
		var promptTokens, completionTokens int
		var cost string
		if err := rows.Scan(&promptTokens, &completionTokens, &cost); err != nil {
			return nil, fmt.Errorf("%w: scan usage: %v", domain.ErrStoreUnavailable, err)
		}
		c, err := decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt cost value %q: %v", domain.ErrStoreUnavailable, cost, err)
		}
		totals.PromptTokens += promptTokens
		totals.CompletionTokens += completionTokens
		totals.Cost = totals.Cost.Add(c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read usage: %v", domain.ErrStoreUnavailable, err)
	}
	return totals, nil
}
