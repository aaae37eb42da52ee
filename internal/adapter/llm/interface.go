package llm

import "context"

// CompletionClient defines the interface for the completion service.
type CompletionClient interface {
	// CreateChatCompletion sends a structured message sequence and returns
	// the reply plus token usage.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements CompletionClient.
var _ CompletionClient = (*Client)(nil)
