package openaigpt

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmessner/responsum/internal/keysource"
	"github.com/tmessner/responsum/internal/responsesadapter"
)

// CreateChatCompletionAdapter transforms chat completion requests into
// Responses API calls. Stateless apart from the injected credential source;
// a fresh upstream client is built per request from the handler's transport.
type CreateChatCompletionAdapter struct {
	keys    keysource.Source
	baseURL string
}

// Compile-time check that the adapter satisfies the generic contract.
var _ responsesadapter.CreateChatCompletionAdapter = (*CreateChatCompletionAdapter)(nil)

// NewCreateChatCompletionAdapter creates the adapter. baseURL overrides the
// upstream endpoint when non-empty.
func NewCreateChatCompletionAdapter(keys keysource.Source, baseURL string) *CreateChatCompletionAdapter {
	return &CreateChatCompletionAdapter{keys: keys, baseURL: baseURL}
}

// ProcessRequest transforms the client request, calls the Responses API, and
// transforms the reply back into a chat completion. All failures come back as
// *responsesadapter.ErrorResponse so the handler can serialize them directly.
func (a *CreateChatCompletionAdapter) ProcessRequest(
	ctx context.Context,
	clientReq responsesadapter.CreateChatCompletionRequest,
	transport http.RoundTripper,
) (*responsesadapter.CreateChatCompletionResponse, error) {
	params, format, err := fromCreateChatCompletionRequest(clientReq)
	if err != nil {
		return nil, toErrorResponse(err)
	}

	apiKey, err := a.keys.APIKey(ctx)
	if err != nil {
		return nil, toErrorResponse(fmt.Errorf("resolve API key: %w", err))
	}

	client, err := newClient(apiKey, a.baseURL, transport)
	if err != nil {
		return nil, toErrorResponse(err)
	}

	resp, err := client.Responses.New(ctx, params)
	if err != nil {
		return nil, toErrorResponse(err)
	}

	union := toReply(resp, format != nil)

	completion, err := toCreateChatCompletionResponse(union, format)
	if err != nil {
		return nil, toErrorResponse(err)
	}
	return completion, nil
}
