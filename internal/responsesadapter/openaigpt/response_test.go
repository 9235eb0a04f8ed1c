package openaigpt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/openai/openai-go/v2/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmessner/responsum/internal/reply"
	"github.com/tmessner/responsum/internal/toolschema"
)

// mustResponse decodes a recorded Responses API payload into the SDK type, the
// same path the HTTP client takes.
func mustResponse(t *testing.T, raw string) *responses.Response {
	t.Helper()
	var resp responses.Response
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

const textResponse = `{
	"id": "resp_123",
	"object": "response",
	"created_at": 1740000000,
	"status": "completed",
	"model": "gpt-5",
	"output": [
		{
			"type": "reasoning",
			"id": "rs_1",
			"summary": []
		},
		{
			"type": "message",
			"id": "msg_1",
			"role": "assistant",
			"status": "completed",
			"content": [
				{"type": "output_text", "text": "Hello there.", "annotations": []}
			]
		}
	],
	"usage": {"input_tokens": 12, "output_tokens": 4, "total_tokens": 16}
}`

const toolCallResponse = `{
	"id": "resp_456",
	"object": "response",
	"created_at": 1740000001,
	"status": "completed",
	"model": "gpt-5",
	"output": [
		{
			"type": "function_call",
			"id": "fc_1",
			"call_id": "call_abc",
			"name": "search",
			"arguments": "{\"q\":\"cats\"}",
			"status": "completed"
		}
	],
	"usage": {"input_tokens": 30, "output_tokens": 9, "total_tokens": 39}
}`

const refusalResponse = `{
	"id": "resp_789",
	"object": "response",
	"created_at": 1740000002,
	"status": "completed",
	"model": "gpt-5",
	"output": [
		{
			"type": "message",
			"id": "msg_2",
			"role": "assistant",
			"status": "completed",
			"content": [
				{"type": "refusal", "refusal": "I can't help with that."}
			]
		}
	],
	"usage": {"input_tokens": 8, "output_tokens": 7, "total_tokens": 15}
}`

const truncatedResponse = `{
	"id": "resp_999",
	"object": "response",
	"created_at": 1740000003,
	"status": "incomplete",
	"incomplete_details": {"reason": "max_output_tokens"},
	"model": "gpt-5",
	"output": [
		{
			"type": "message",
			"id": "msg_3",
			"role": "assistant",
			"status": "incomplete",
			"content": [
				{"type": "output_text", "text": "The answer begins", "annotations": []}
			]
		}
	],
	"usage": {"input_tokens": 10, "output_tokens": 100, "total_tokens": 110}
}`

func TestToReplyText(t *testing.T) {
	r := toReply(mustResponse(t, textResponse), false)

	assert.Equal(t, "resp_123", r.ID)
	assert.Equal(t, "gpt-5", r.Model)
	assert.Equal(t, int64(1740000000), r.Created)
	assert.Equal(t, "Hello there.", r.Text)
	assert.Empty(t, r.ToolCalls)
	assert.Nil(t, r.Structured)
	assert.False(t, r.Refused)
	assert.Equal(t, "stop", r.FinishReason)
	assert.Equal(t, int64(12), r.Usage.InputTokens)
	assert.Equal(t, int64(4), r.Usage.OutputTokens)
}

func TestToReplyToolCalls(t *testing.T) {
	r := toReply(mustResponse(t, toolCallResponse), false)

	require.Len(t, r.ToolCalls, 1)
	assert.Equal(t, "call_abc", r.ToolCalls[0].ID)
	assert.Equal(t, "search", r.ToolCalls[0].Name)
	assert.JSONEq(t, `{"q":"cats"}`, string(r.ToolCalls[0].Arguments))
	assert.Equal(t, "tool_calls", r.FinishReason)
}

func TestToReplyRefusal(t *testing.T) {
	r := toReply(mustResponse(t, refusalResponse), false)

	assert.True(t, r.Refused)
	assert.Equal(t, "I can't help with that.", r.Text)
	assert.Equal(t, "content_filter", r.FinishReason)
}

func TestToReplyTruncated(t *testing.T) {
	r := toReply(mustResponse(t, truncatedResponse), false)

	assert.Equal(t, "length", r.FinishReason)
}

func TestToReplyStructured(t *testing.T) {
	raw := strings.Replace(textResponse, "Hello there.", `{\"name\":\"p\",\"score\":1}`, 1)
	r := toReply(mustResponse(t, raw), true)

	require.NotNil(t, r.Structured)
	assert.JSONEq(t, `{"name":"p","score":1}`, string(r.Structured))
}

func TestToReplyStructuredNotSetForRefusal(t *testing.T) {
	r := toReply(mustResponse(t, refusalResponse), true)
	assert.Nil(t, r.Structured)
}

func TestToCreateChatCompletionResponseText(t *testing.T) {
	r := toReply(mustResponse(t, textResponse), false)

	completion, err := toCreateChatCompletionResponse(r, nil)
	require.NoError(t, err)

	assert.Equal(t, "resp_123", completion.Id)
	assert.Equal(t, "chat.completion", completion.Object)
	assert.Equal(t, int64(1740000000), completion.Created)
	assert.Equal(t, "gpt-5", completion.Model)

	require.Len(t, completion.Choices, 1)
	choice := completion.Choices[0]
	assert.Equal(t, "stop", choice.FinishReason)
	require.NotNil(t, choice.Message.Content)
	assert.Equal(t, "Hello there.", *choice.Message.Content)
	assert.Empty(t, choice.Message.ToolCalls)

	require.NotNil(t, completion.Usage)
	assert.Equal(t, 12, completion.Usage.PromptTokens)
	assert.Equal(t, 4, completion.Usage.CompletionTokens)
	assert.Equal(t, 16, completion.Usage.TotalTokens)
}

func TestToCreateChatCompletionResponseToolCalls(t *testing.T) {
	r := toReply(mustResponse(t, toolCallResponse), false)

	completion, err := toCreateChatCompletionResponse(r, nil)
	require.NoError(t, err)

	choice := completion.Choices[0]
	assert.Equal(t, "tool_calls", choice.FinishReason)
	assert.Nil(t, choice.Message.Content)
	require.Len(t, choice.Message.ToolCalls, 1)
	call := choice.Message.ToolCalls[0]
	assert.Equal(t, "call_abc", call.Id)
	assert.Equal(t, "function", call.Type)
	assert.Equal(t, "search", call.Function.Name)
	assert.JSONEq(t, `{"q":"cats"}`, call.Function.Arguments)
}

func TestToCreateChatCompletionResponseStructured(t *testing.T) {
	format := toolschema.NewFormat("report", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
	})

	r := reply.Reply{
		ID:           "resp_1",
		Model:        "gpt-5",
		Created:      1740000000,
		Text:         `{"name":"p","score":1}`,
		Structured:   json.RawMessage(`{"name":"p","score":1}`),
		FinishReason: "stop",
	}

	completion, err := toCreateChatCompletionResponse(r, &format)
	require.NoError(t, err)

	require.NotNil(t, completion.Choices[0].Message.Content)
	assert.JSONEq(t, `{"name":"p","score":1}`, *completion.Choices[0].Message.Content)
}

func TestToCreateChatCompletionResponseMalformedStructured(t *testing.T) {
	format := toolschema.NewFormat("report", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
	})

	r := reply.Reply{
		ID:         "resp_1",
		Model:      "gpt-5",
		Structured: json.RawMessage(`{"name":"p"}`),
	}

	_, err := toCreateChatCompletionResponse(r, &format)

	var malformedErr *reply.MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
}

func TestToCreateChatCompletionResponseFallbackIDAndTimestamp(t *testing.T) {
	completion, err := toCreateChatCompletionResponse(reply.Reply{Model: "gpt-5", FinishReason: "stop"}, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(completion.Id, "chatcmpl-"))
	assert.NotZero(t, completion.Created)
}

func TestNewToolCallIDShape(t *testing.T) {
	id := newToolCallID()
	assert.True(t, strings.HasPrefix(id, "call_"))
	assert.Len(t, id, len("call_")+8)
}
