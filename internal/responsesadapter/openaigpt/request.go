package openaigpt

import (
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/packages/param"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"

	"github.com/tmessner/responsum/internal/responsesadapter"
	"github.com/tmessner/responsum/internal/responsesadapter/types"
	"github.com/tmessner/responsum/internal/toolschema"
)

// fromCreateChatCompletionRequest converts a chat completion request into
// Responses API parameters. The second return value is the structured-output
// format when the client requested one, needed later to classify the reply.
func fromCreateChatCompletionRequest(
	req responsesadapter.CreateChatCompletionRequest,
) (responses.ResponseNewParams, *toolschema.Format, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.Model),
	}

	instructions, items, err := fromChatMessages(req.Messages)
	if err != nil {
		return params, nil, err
	}
	if instructions != "" {
		params.Instructions = openai.String(instructions)
	}
	params.Input = responses.ResponseNewParamsInputUnion{OfInputItemList: items}

	tools, err := fromChatCompletionTools(req.Tools)
	if err != nil {
		return params, nil, err
	}
	params.Tools = tools

	if req.ToolChoice != nil {
		toolChoice, err := fromToolChoiceOption(req.ToolChoice)
		if err != nil {
			return params, nil, err
		}
		params.ToolChoice = toolChoice
	}

	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	// max_completion_tokens supersedes the deprecated max_tokens
	if req.MaxCompletionTokens != nil {
		params.MaxOutputTokens = openai.Int(*req.MaxCompletionTokens)
	} else if req.MaxTokens != nil {
		params.MaxOutputTokens = openai.Int(*req.MaxTokens)
	}

	params.Reasoning = fromReasoningEffort(req.ReasoningEffort)

	format, err := fromResponseFormat(req.ResponseFormat)
	if err != nil {
		return params, nil, err
	}
	if format != nil {
		jsonSchema := &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   format.Name,
			Schema: format.Schema,
			Strict: openai.Bool(format.Strict),
		}
		if format.Description != "" {
			jsonSchema.Description = openai.String(format.Description)
		}
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{OfJSONSchema: jsonSchema},
		}
	}

	return params, format, nil
}

// fromChatMessages flattens chat messages into Responses input items. System
// and developer messages are hoisted into the instructions string (joined in
// order); the remaining roles stay inline as input items.
func fromChatMessages(messages []types.ChatMessage) (string, responses.ResponseInputParam, error) {
	var instructions []string
	items := make(responses.ResponseInputParam, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case "system", "developer":
			text, err := contentText(msg.Content)
			if err != nil {
				return "", nil, fmt.Errorf("message %d: %w", i, err)
			}
			if text != "" {
				instructions = append(instructions, text)
			}

		case "user":
			text, err := contentText(msg.Content)
			if err != nil {
				return "", nil, fmt.Errorf("message %d: %w", i, err)
			}
			items = append(items, responses.ResponseInputItemUnionParam{
				OfMessage: &responses.EasyInputMessageParam{
					Role:    responses.EasyInputMessageRoleUser,
					Content: responses.EasyInputMessageContentUnionParam{OfString: openai.String(text)},
				},
			})

		case "assistant":
			// Past tool calls are replayed as function_call items so the model
			// sees its own prior invocations in the transcript.
			for _, call := range msg.ToolCalls {
				items = append(items, responses.ResponseInputItemUnionParam{
					OfFunctionCall: &responses.ResponseFunctionToolCallParam{
						CallID:    call.Id,
						Name:      call.Function.Name,
						Arguments: call.Function.Arguments,
					},
				})
			}
			text, err := contentText(msg.Content)
			if err != nil {
				return "", nil, fmt.Errorf("message %d: %w", i, err)
			}
			if text != "" {
				items = append(items, responses.ResponseInputItemUnionParam{
					OfMessage: &responses.EasyInputMessageParam{
						Role:    responses.EasyInputMessageRoleAssistant,
						Content: responses.EasyInputMessageContentUnionParam{OfString: openai.String(text)},
					},
				})
			}

		case "tool":
			if msg.ToolCallID == nil || *msg.ToolCallID == "" {
				return "", nil, fmt.Errorf("message %d: tool message missing tool_call_id", i)
			}
			text, err := contentText(msg.Content)
			if err != nil {
				return "", nil, fmt.Errorf("message %d: %w", i, err)
			}
			items = append(items, responses.ResponseInputItemUnionParam{
				OfFunctionCallOutput: &responses.ResponseInputItemFunctionCallOutputParam{
					CallID: *msg.ToolCallID,
					Output: text,
				},
			})

		default:
			return "", nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}

	return strings.Join(instructions, "\n\n"), items, nil
}

// contentText flattens chat message content into plain text. Multimodal parts
// other than text cannot be expressed in the flattened Responses input and are
// rejected.
func contentText(content any) (string, error) {
	switch v := content.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []any:
		var sb strings.Builder
		for i, partAny := range v {
			part, ok := partAny.(map[string]any)
			if !ok {
				return "", fmt.Errorf("content part %d: unsupported shape %T", i, partAny)
			}
			partType, _ := part["type"].(string)
			if partType != "text" {
				return "", fmt.Errorf("content part %d: type %q not supported", i, partType)
			}
			text, _ := part["text"].(string)
			if sb.Len() > 0 && text != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unsupported content format: %T", v)
	}
}

// fromToolChoiceOption converts chat-completions tool_choice (string mode or
// named function object) to the Responses tool choice union.
func fromToolChoiceOption(toolChoice any) (responses.ResponseNewParamsToolChoiceUnion, error) {
	var choice responses.ResponseNewParamsToolChoiceUnion

	switch v := toolChoice.(type) {
	case string:
		switch v {
		case "none":
			choice.OfToolChoiceMode = param.NewOpt(responses.ToolChoiceOptionsNone)
		case "auto":
			choice.OfToolChoiceMode = param.NewOpt(responses.ToolChoiceOptionsAuto)
		case "required":
			choice.OfToolChoiceMode = param.NewOpt(responses.ToolChoiceOptionsRequired)
		default:
			return choice, fmt.Errorf("unsupported tool choice string: %s", v)
		}
		return choice, nil

	case map[string]any:
		choiceType, _ := v["type"].(string)
		if choiceType != "function" {
			return choice, fmt.Errorf("unsupported tool choice type %q", choiceType)
		}
		fn, _ := v["function"].(map[string]any)
		name, _ := fn["name"].(string)
		if name == "" {
			return choice, fmt.Errorf("named tool choice missing function name")
		}
		choice.OfFunctionTool = &responses.ToolChoiceFunctionParam{Name: name}
		return choice, nil

	default:
		return choice, fmt.Errorf("unsupported tool choice format: %T", v)
	}
}

// fromReasoningEffort maps chat-completions reasoning_effort onto the
// Responses reasoning config. Unknown values are ignored rather than rejected,
// matching the advisory treatment of the field on the chat endpoint.
func fromReasoningEffort(effort *string) shared.ReasoningParam {
	var reasoning shared.ReasoningParam
	if effort == nil {
		return reasoning
	}

	switch *effort {
	case "minimal":
		reasoning.Effort = shared.ReasoningEffortMinimal
	case "low":
		reasoning.Effort = shared.ReasoningEffortLow
	case "medium":
		reasoning.Effort = shared.ReasoningEffortMedium
	case "high":
		reasoning.Effort = shared.ReasoningEffortHigh
	}
	return reasoning
}

// fromResponseFormat converts response_format into a structured-output format.
// Returns nil for "text"; "json_object" is rejected because the Responses API
// strict mode requires a schema.
func fromResponseFormat(rf *types.ResponseFormat) (*toolschema.Format, error) {
	if rf == nil {
		return nil, nil
	}

	switch rf.Type {
	case "", "text":
		return nil, nil
	case "json_schema":
		if rf.JSONSchema == nil || rf.JSONSchema.Name == "" {
			return nil, fmt.Errorf("response_format json_schema requires a named schema")
		}
		format := toolschema.NewFormat(rf.JSONSchema.Name, rf.JSONSchema.Schema)
		if rf.JSONSchema.Description != nil {
			format.Description = *rf.JSONSchema.Description
		}
		if rf.JSONSchema.Strict != nil {
			format.Strict = *rf.JSONSchema.Strict
		}
		return &format, nil
	case "json_object":
		return nil, fmt.Errorf("response_format json_object not supported; use json_schema with an explicit schema")
	default:
		return nil, fmt.Errorf("unsupported response_format type %q", rf.Type)
	}
}
