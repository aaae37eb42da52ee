package domain

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserInput string `json:"user_input"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// UsageResponse is the body of GET /usage. Cost is serialized as a decimal
// string rounded for display; stored records keep full precision.
type UsageResponse struct {
	TotalPromptTokens     int    `json:"total_prompt_tokens"`
	TotalCompletionTokens int    `json:"total_completion_tokens"`
	TotalCost             string `json:"total_cost"`
}

// TurnsResponse is the body of GET /v1/conversation/messages.
type TurnsResponse struct {
	Turns []Turn `json:"turns"`
}

// ErrorBody is the error payload returned by all endpoints.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the kind tag and a human-readable message.
type ErrorDetail struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
