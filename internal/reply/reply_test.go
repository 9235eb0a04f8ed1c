package reply

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToolCallsWin(t *testing.T) {
	r := Reply{
		Text: "thinking out loud",
		ToolCalls: []ToolCall{
			{ID: "call_1", Name: "search", Arguments: json.RawMessage(`{"q":"cats"}`)},
			{ID: "call_2", Name: "fetch", Arguments: json.RawMessage(`{"url":"https://example.com"}`)},
		},
		Structured: json.RawMessage(`{"ignored":true}`),
	}

	result, err := Extract(r, nil)
	require.NoError(t, err)

	assert.Equal(t, KindToolCalls, result.Kind)
	require.Len(t, result.ToolCalls, 2)
	assert.Equal(t, "search", result.ToolCalls[0].Name)
	assert.Equal(t, "fetch", result.ToolCalls[1].Name)
	assert.JSONEq(t, `{"q":"cats"}`, string(result.ToolCalls[0].Arguments))
}

func TestExtractToolCallsCopied(t *testing.T) {
	r := Reply{ToolCalls: []ToolCall{{ID: "call_1", Name: "search", Arguments: json.RawMessage(`{"q":"cats"}`)}}}

	result, err := Extract(r, nil)
	require.NoError(t, err)

	result.ToolCalls[0].Name = "mutated"
	assert.Equal(t, "search", r.ToolCalls[0].Name)

	// argument bytes must not alias the input either
	r.ToolCalls[0].Arguments[0] = 'X'
	assert.JSONEq(t, `{"q":"cats"}`, string(result.ToolCalls[0].Arguments))
}

func TestExtractText(t *testing.T) {
	result, err := Extract(Reply{Text: "hello"}, nil)
	require.NoError(t, err)

	assert.Equal(t, KindText, result.Kind)
	assert.Equal(t, "hello", result.Text)
}

func TestExtractEmptyTextIsText(t *testing.T) {
	result, err := Extract(Reply{}, nil)
	require.NoError(t, err)

	assert.Equal(t, KindText, result.Kind)
	assert.Equal(t, "", result.Text)
}

func TestExtractStructured(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
		"required": []string{"name", "score"},
	}
	r := Reply{Structured: json.RawMessage(`{"name":"p","score":1}`)}

	result, err := Extract(r, schema)
	require.NoError(t, err)

	assert.Equal(t, KindStructured, result.Kind)
	assert.Equal(t, "p", result.Structured["name"])
	assert.Equal(t, float64(1), result.Structured["score"])
}

func TestExtractStructuredMissingRequired(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
		"required": []string{"name", "score"},
	}
	r := Reply{Structured: json.RawMessage(`{"name":"p"}`)}

	_, err := Extract(r, schema)

	var malformedErr *MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "score", malformedErr.Field)
}

func TestExtractStructuredNestedRequired(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"player": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
		"required": []string{"player"},
	}

	_, err := Extract(Reply{Structured: json.RawMessage(`{"player":{}}`)}, schema)

	var malformedErr *MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "player.name", malformedErr.Field)

	_, err = Extract(Reply{Structured: json.RawMessage(`{"player":{"name":"p"}}`)}, schema)
	assert.NoError(t, err)
}

func TestExtractStructuredLiteralKeysWithMetacharacters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a.b": map[string]any{"type": "string"},
		},
		"required": []string{"a.b"},
	}

	// the literal key "a.b" satisfies the requirement
	result, err := Extract(Reply{Structured: json.RawMessage(`{"a.b":"x"}`)}, schema)
	require.NoError(t, err)
	assert.Equal(t, KindStructured, result.Kind)

	// a nested "b" under "a" is not the literal key "a.b"
	_, err = Extract(Reply{Structured: json.RawMessage(`{"a":{"b":"x"}}`)}, schema)

	var malformedErr *MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "a.b", malformedErr.Field)

	// wildcard characters match only themselves
	_, err = Extract(Reply{Structured: json.RawMessage(`{"anything":"goes"}`)}, map[string]any{
		"type":     "object",
		"required": []string{"*"},
	})
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "*", malformedErr.Field)
}

func TestExtractStructuredInvalidJSON(t *testing.T) {
	_, err := Extract(Reply{Structured: json.RawMessage(`{"name":`)}, nil)

	var malformedErr *MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
}

func TestExtractStructuredNonObject(t *testing.T) {
	_, err := Extract(Reply{Structured: json.RawMessage(`[1,2,3]`)}, nil)

	var malformedErr *MalformedPayloadError
	require.ErrorAs(t, err, &malformedErr)
}

func TestExtractStructuredNoSchema(t *testing.T) {
	// without a schema any JSON object passes
	result, err := Extract(Reply{Structured: json.RawMessage(`{"anything":"goes"}`)}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindStructured, result.Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "tool_calls", KindToolCalls.String())
	assert.Equal(t, "structured", KindStructured.String())
}
