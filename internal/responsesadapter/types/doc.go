// Package types provides OpenAI Chat Completions API types for server-side
// request/response handling.
//
// These are hand-maintained rather than taken from the openai-go SDK:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: The openai-go SDK is designed for making
//     outbound API calls TO OpenAI. This bridge receives inbound requests FROM
//     clients and translates them to the Responses API. The client-oriented
//     design would add unnecessary complexity for server-side JSON decoding.
//
//  2. FIELD PATTERNS: SDK params use param.Opt[T] for optional fields,
//     requiring additional checks. These types use standard Go pointers
//     (*string, *int64), which work naturally with json.NewDecoder().
//
//  3. STANDARD JSON: These types work with encoding/json directly. SDK types
//     would require custom marshaling logic on the server side.
//
// Only the subset of the Chat Completions surface the bridge supports is
// modeled; unknown fields in client requests are ignored by the decoder.
package types
