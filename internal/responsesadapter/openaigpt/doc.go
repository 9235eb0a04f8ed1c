// Package openaigpt adapts Chat Completions requests to the OpenAI Responses
// API, letting chat-completions clients run against models served through the
// newer call shape without code changes.
//
// The adapter handles:
//
//   - Input transformation: System and developer messages are hoisted into the
//     Responses "instructions" field while user/assistant turns become input
//     items in conversation order. Tool result messages become
//     function_call_output items keyed by their call ID.
//
//   - Tool definitions: Legacy function tools are normalized into the strict
//     closed-schema shape the Responses API requires (internal/toolschema)
//     before being attached to the request.
//
//   - Structured output: response_format of type json_schema becomes the
//     Responses text.format config, with the schema closed the same way.
//
//   - Output classification: The Responses output item list is folded into a
//     tagged reply union once at the SDK boundary (internal/reply); downstream
//     code encodes the extracted variant back into a chat completion.
//
// # Adapters
//
// CreateChatCompletionAdapter: Chat Completions → Responses API
package openaigpt
