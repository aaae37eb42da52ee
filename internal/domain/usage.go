package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord is the accounting entry for one successful completion call.
// Cost is computed once at record time from the pricing table in effect and
// is never recomputed, even if pricing changes later.
type UsageRecord struct {
	RecordID         string          `json:"record_id"`
	Model            string          `json:"model"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	Cost             decimal.Decimal `json:"cost"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Totals is the derived aggregate over all usage records. It is recomputed
// from the record set on demand; there is no running counter to drift.
type Totals struct {
	PromptTokens     int             `json:"total_prompt_tokens"`
	CompletionTokens int             `json:"total_completion_tokens"`
	Cost             decimal.Decimal `json:"total_cost"`
}

// Pricing holds the per-1000-token rates used to derive cost.
type Pricing struct {
	PromptPer1K     decimal.Decimal
	CompletionPer1K decimal.Decimal
}

var oneThousand = decimal.NewFromInt(1000)

// Cost returns the charge for one call at these rates.
func (p Pricing) Cost(promptTokens, completionTokens int) decimal.Decimal {
	prompt := decimal.NewFromInt(int64(promptTokens)).Div(oneThousand).Mul(p.PromptPer1K)
	completion := decimal.NewFromInt(int64(completionTokens)).Div(oneThousand).Mul(p.CompletionPer1K)
	return prompt.Add(completion)
}
