package openaigpt

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/responses"

	"github.com/tmessner/responsum/internal/responsesadapter/types"
	"github.com/tmessner/responsum/internal/toolschema"
)

// fromChatCompletionTools normalizes legacy function tools into the strict
// closed-schema form and converts them to Responses function tool params.
func fromChatCompletionTools(tools []types.ChatTool) ([]responses.ToolUnionParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	descriptors := make([]toolschema.Descriptor, 0, len(tools))
	for i, tool := range tools {
		if tool.Type != "function" {
			return nil, fmt.Errorf("tool %d: unsupported tool type %q", i, tool.Type)
		}
		desc := toolschema.Descriptor{
			Name:       tool.Function.Name,
			Parameters: tool.Function.Parameters,
		}
		if tool.Function.Description != nil {
			desc.Description = *tool.Function.Description
		}
		descriptors = append(descriptors, desc)
	}

	normalized, err := toolschema.Normalize(descriptors)
	if err != nil {
		return nil, err
	}

	result := make([]responses.ToolUnionParam, 0, len(normalized))
	for _, tool := range normalized {
		fn := &responses.FunctionToolParam{
			Name:       tool.Name,
			Parameters: tool.Parameters,
			Strict:     openai.Bool(true),
		}
		if tool.Description != "" {
			fn.Description = openai.String(tool.Description)
		}
		result = append(result, responses.ToolUnionParam{OfFunction: fn})
	}
	return result, nil
}

// newToolCallID generates a synthetic tool call ID for output items that
// arrive without one.
func newToolCallID() string {
	return "call_" + uuid.New().String()[:8]
}
