package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/voxlab/assistant/internal/adapter/llm"
	"github.com/voxlab/assistant/internal/adapter/search"
	"github.com/voxlab/assistant/internal/domain"
)

// HandleTurn processes one user utterance end to end and returns the
// assistant's reply text.
//
// Pipeline: validate input, fetch search snippets (best-effort), assemble
// the prompt from stored history, call the completion service, then commit
// in order: user turn, assistant turn, usage record. A completion failure
// persists nothing. A store failure after the model call stops at the point
// of failure; the assistant turn is never written without its user turn.
// A usage-recording failure after both turns are committed is logged but
// does not fail the turn.
func (s *Service) HandleTurn(ctx context.Context, userInput string) (string, error) {
	requestID := "req_" + uuid.New().String()[:8]
	log.Printf("[%s] stage=%s", requestID, domain.StageReceived)

	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		log.Printf("[%s] stage=%s: empty input", requestID, domain.StageFailed)
		return "", fmt.Errorf("%w: user_input must not be empty", domain.ErrInvalidInput)
	}

	snippets := s.fetchSnippets(ctx, requestID, userInput)

	log.Printf("[%s] stage=%s", requestID, domain.StageAssembling)
	history, err := s.store.RecentTurns(ctx, s.config.HistoryWindow)
	if err != nil {
		log.Printf("[%s] stage=%s: %v", requestID, domain.StageFailed, err)
		return "", err
	}
	messages := BuildPrompt(s.config.SystemPrompt, history, snippets, userInput)

	log.Printf("[%s] stage=%s model=%s messages=%d", requestID, domain.StageCallingModel, s.config.Model, len(messages))
	// A caller that abandons the request does not cancel a dispatched
	// completion call: the call runs to completion or times out on its own,
	// and a successful reply is still committed.
	detached := context.WithoutCancel(ctx)
	llmCtx, cancel := context.WithTimeout(detached, s.config.LLMTimeout)
	defer cancel()
	resp, err := s.llmClient.CreateChatCompletion(llmCtx, &llm.ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	})
	if err != nil {
		log.Printf("[%s] stage=%s: completion call: %v", requestID, domain.StageFailed, err)
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		log.Printf("[%s] stage=%s: completion returned no choices", requestID, domain.StageFailed)
		return "", fmt.Errorf("%w: completion returned no choices", domain.ErrModelUnavailable)
	}
	reply := resp.Choices[0].Message.Content

	log.Printf("[%s] stage=%s", requestID, domain.StagePersisting)
	if _, err := s.store.AppendTurn(detached, domain.RoleUser, userInput); err != nil {
		log.Printf("[%s] stage=%s: persist user turn: %v", requestID, domain.StageFailed, err)
		return "", err
	}
	if _, err := s.store.AppendTurn(detached, domain.RoleAssistant, reply); err != nil {
		// The user turn stays: a dangling user turn is a valid terminal
		// state for an incomplete exchange.
		log.Printf("[%s] stage=%s: persist assistant turn: %v", requestID, domain.StageFailed, err)
		return "", err
	}

	if resp.Usage != nil {
		if _, err := s.store.RecordUsage(detached, resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens); err != nil {
			// Accounting is secondary to conversational continuity.
			log.Printf("WARN: [%s] failed to record usage: %v", requestID, err)
		}
	} else {
		log.Printf("WARN: [%s] completion response carried no usage data", requestID)
	}

	log.Printf("[%s] stage=%s", requestID, domain.StageDone)
	return reply, nil
}

// fetchSnippets runs best-effort search augmentation. Any provider failure,
// timeout, or malformed response degrades to an empty result and never
// aborts the turn.
func (s *Service) fetchSnippets(ctx context.Context, requestID, query string) []search.Snippet {
	if s.searchProvider == nil {
		return nil
	}
	log.Printf("[%s] stage=%s", requestID, domain.StageSearching)

	searchCtx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	snippets, err := s.searchProvider.Search(searchCtx, query, s.config.SearchMaxResults)
	if err != nil {
		log.Printf("WARN: [%s] search augmentation failed: %v", requestID, err)
		return nil
	}
	if len(snippets) > s.config.SearchMaxResults {
		snippets = snippets[:s.config.SearchMaxResults]
	}
	return snippets
}
