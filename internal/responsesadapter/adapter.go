package responsesadapter

import (
	"context"
	"net/http"

	"github.com/tmessner/responsum/internal/responsesadapter/types"
)

// Adapter defines the contract for transforming client requests to provider
// API calls.
//
// Type parameters allow the interface to express transformation contracts for
// different request/response shapes while maintaining compile-time type
// safety:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//
// The bridge is buffered-only; there is no streaming variant.
type Adapter[TRequest, TResponse any] interface {
	// ProcessRequest transforms the client request, calls the provider API, and
	// returns the transformed response. Implementations should remain stateless.
	ProcessRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (*TResponse, error)
}

// Type aliases for OpenAI-compatible chat completion operations.
// CreateChatCompletionAdapter is the adapter interface for this operation.
type (
	CreateChatCompletionRequest  = types.CreateChatCompletionRequest
	CreateChatCompletionResponse = types.CreateChatCompletionResponse

	CreateChatCompletionAdapter = Adapter[
		CreateChatCompletionRequest,
		CreateChatCompletionResponse,
	]
)

// Type aliases for OpenAI-compatible error responses.
type (
	Error         = types.Error
	ErrorResponse = types.ErrorResponse
)
