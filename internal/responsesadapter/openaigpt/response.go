package openaigpt

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2/responses"

	"github.com/tmessner/responsum/internal/reply"
	"github.com/tmessner/responsum/internal/responsesadapter"
	"github.com/tmessner/responsum/internal/responsesadapter/types"
	"github.com/tmessner/responsum/internal/toolschema"
)

// toReply folds the Responses output item list into the tagged reply union.
// The union is the single place downstream code reads model output from; the
// SDK's item variants do not escape this function.
//
// structured marks the request as having asked for json_schema output, in
// which case plain text output carries the structured payload.
func toReply(resp *responses.Response, structured bool) reply.Reply {
	r := reply.Reply{
		ID:      resp.ID,
		Model:   string(resp.Model),
		Created: int64(resp.CreatedAt),
		Usage: reply.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}

	var text strings.Builder
	for _, item := range resp.Output {
		switch v := item.AsAny().(type) {
		case responses.ResponseFunctionToolCall:
			call := reply.ToolCall{
				ID:        v.CallID,
				Name:      v.Name,
				Arguments: json.RawMessage(v.Arguments),
			}
			if call.ID == "" {
				call.ID = newToolCallID()
			}
			if len(call.Arguments) == 0 {
				call.Arguments = json.RawMessage("{}")
			}
			r.ToolCalls = append(r.ToolCalls, call)

		case responses.ResponseOutputMessage:
			for _, content := range v.Content {
				switch c := content.AsAny().(type) {
				case responses.ResponseOutputText:
					text.WriteString(c.Text)
				case responses.ResponseOutputRefusal:
					text.WriteString(c.Refusal)
					r.Refused = true
				}
			}
		}
		// reasoning and other item types carry no client-visible output
	}
	r.Text = text.String()

	if structured && len(r.ToolCalls) == 0 && r.Text != "" && !r.Refused {
		r.Structured = json.RawMessage(r.Text)
	}

	r.FinishReason = toFinishReason(r, resp)
	return r
}

// toFinishReason maps the reply shape and upstream incomplete details onto
// chat completion finish reasons.
func toFinishReason(r reply.Reply, resp *responses.Response) string {
	if len(r.ToolCalls) > 0 {
		return "tool_calls"
	}
	if r.Refused {
		return "content_filter"
	}
	switch resp.IncompleteDetails.Reason {
	case "max_output_tokens":
		return "length"
	case "content_filter":
		return "content_filter"
	}
	return "stop"
}

// toCreateChatCompletionResponse extracts the reply variant and encodes it as
// a chat completion. format carries the structured-output schema when one was
// requested, used to validate the payload before it reaches the client.
func toCreateChatCompletionResponse(
	r reply.Reply,
	format *toolschema.Format,
) (*responsesadapter.CreateChatCompletionResponse, error) {
	var schema map[string]any
	if format != nil {
		schema = format.Schema
	}

	result, err := reply.Extract(r, schema)
	if err != nil {
		return nil, err
	}

	message := types.ResponseMessage{Role: "assistant"}
	switch result.Kind {
	case reply.KindToolCalls:
		message.ToolCalls = make([]types.ToolCall, 0, len(result.ToolCalls))
		for _, call := range result.ToolCalls {
			message.ToolCalls = append(message.ToolCalls, types.ToolCall{
				Id:   call.ID,
				Type: "function",
				Function: types.ToolCallFunction{
					Name:      call.Name,
					Arguments: string(call.Arguments),
				},
			})
		}
	case reply.KindStructured:
		// the raw payload goes out verbatim; Result.Structured is only the
		// parsed view used for validation
		content := string(r.Structured)
		message.Content = &content
	default:
		content := result.Text
		message.Content = &content
	}

	id := r.ID
	if id == "" {
		id = newResponseID()
	}
	created := r.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	return &responsesadapter.CreateChatCompletionResponse{
		Id:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   r.Model,
		Choices: []types.Choice{{
			Index:        0,
			Message:      message,
			FinishReason: r.FinishReason,
		}},
		Usage: toCompletionUsage(r.Usage),
	}, nil
}

func toCompletionUsage(u reply.Usage) *types.CompletionUsage {
	return &types.CompletionUsage{
		PromptTokens:     int(u.InputTokens),
		CompletionTokens: int(u.OutputTokens),
		TotalTokens:      int(u.InputTokens + u.OutputTokens),
	}
}

// newResponseID generates a chat completion ID when the upstream response
// lacks one.
func newResponseID() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return "chatcmpl-" + base64.RawURLEncoding.EncodeToString(buf)
}
