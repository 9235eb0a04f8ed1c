package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tmessner/responsum/internal/responsesadapter"
	"github.com/tmessner/responsum/internal/responsesadapter/openaigpt"
)

// CreateChatCompletionsHandler handles OpenAI-compatible chat completion requests.
type CreateChatCompletionsHandler struct {
	Adapter   *openaigpt.CreateChatCompletionAdapter
	Transport http.RoundTripper
}

// Compile-time check to ensure CreateChatCompletionsHandler implements http.Handler
var _ http.Handler = (*CreateChatCompletionsHandler)(nil)

// ServeHTTP implements http.Handler. Requests are always handled buffered;
// the Responses API call completes before the chat completion is written.
func (h *CreateChatCompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req responsesadapter.CreateChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONOpenAIError(ctx, w, &responsesadapter.ErrorResponse{
				Err: responsesadapter.Error{
					Message: http.StatusText(http.StatusRequestEntityTooLarge),
					Type:    "invalid_request_error",
				},
			})
			return
		}
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeJSONOpenAIError(ctx, w, &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: http.StatusText(http.StatusBadRequest),
				Type:    "invalid_request_error",
			},
		})
		return
	}

	if req.Stream != nil && *req.Stream {
		writeJSONOpenAIError(ctx, w, &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: "streaming is not supported; set stream to false",
				Type:    "invalid_request_error",
				Param:   "stream",
			},
		})
		return
	}

	h.writeResponse(ctx, w, req)
}

// writeResponse handles buffered chat completion requests.
func (h *CreateChatCompletionsHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req responsesadapter.CreateChatCompletionRequest,
) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.ProcessRequest(ctx, req, h.Transport)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)

		var errResp *responsesadapter.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONOpenAIError(ctx, w, errResp)
			return
		}

		writeJSONOpenAIError(ctx, w, &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: http.StatusText(http.StatusInternalServerError),
				Type:    "api_error",
			},
		})
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}
