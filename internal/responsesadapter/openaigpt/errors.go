package openaigpt

import (
	"errors"

	"github.com/openai/openai-go/v2"

	"github.com/tmessner/responsum/internal/reply"
	"github.com/tmessner/responsum/internal/responsesadapter"
	"github.com/tmessner/responsum/internal/toolschema"
)

// toErrorResponse converts any adapter failure into the OpenAI error envelope
// the handler serializes to the client.
func toErrorResponse(err error) *responsesadapter.ErrorResponse {
	var errResp *responsesadapter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}

	var dupErr *toolschema.DuplicateNameError
	if errors.As(err, &dupErr) {
		return &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: dupErr.Error(),
				Type:    "invalid_request_error",
				Param:   "tools",
			},
		}
	}

	var malformedErr *reply.MalformedPayloadError
	if errors.As(err, &malformedErr) {
		return &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: malformedErr.Error(),
				Type:    "api_error",
			},
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error()
		}
		return &responsesadapter.ErrorResponse{
			Err: responsesadapter.Error{
				Message: message,
				Type:    mapStatusCode(apiErr.StatusCode),
				Code:    apiErr.Code,
			},
		}
	}

	return &responsesadapter.ErrorResponse{
		Err: responsesadapter.Error{
			Message: err.Error(),
			Type:    "server_error",
		},
	}
}

// mapStatusCode maps an upstream HTTP status to an OpenAI error type string.
func mapStatusCode(status int) string {
	switch {
	case status == 400:
		return "invalid_request_error"
	case status == 401:
		return "authentication_error"
	case status == 403:
		return "permission_denied"
	case status == 404:
		return "invalid_request_error"
	case status == 429:
		return "rate_limit_error"
	case status >= 500:
		return "server_error"
	default:
		return "api_error"
	}
}
