// Package service implements the turn-processing pipeline: prompt assembly,
// completion calls, persistence, and usage accounting.
package service

import (
	"github.com/voxlab/assistant/internal/adapter/llm"
	"github.com/voxlab/assistant/internal/adapter/search"
	"github.com/voxlab/assistant/internal/config"
	store "github.com/voxlab/assistant/internal/repository"
)

// Service coordinates one chat turn end to end. It holds no per-request
// state; everything durable lives in the store.
type Service struct {
	store          store.Store
	llmClient      llm.CompletionClient
	searchProvider search.Provider // nil disables augmentation
	config         *config.Config
}

// New creates a service. A nil searchProvider disables search augmentation.
func New(st store.Store, llmClient llm.CompletionClient, searchProvider search.Provider, cfg *config.Config) *Service {
	return &Service{
		store:          st,
		llmClient:      llmClient,
		searchProvider: searchProvider,
		config:         cfg,
	}
}
