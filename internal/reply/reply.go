// Package reply classifies upstream Responses API replies into exactly one
// result variant: plain text, requested tool invocations, or a structured
// payload matching a caller-supplied schema.
//
// The Reply union is assembled once at the API-client boundary; this package
// never probes SDK types. Extraction is a pure classification function with no
// I/O and no state retained across calls, so it is safe to call concurrently.
package reply

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ToolCall is a single tool invocation requested by the model. Arguments pass
// through verbatim; validating them against the tool's declared parameter
// schema is the caller's concern, not the extractor's.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Usage carries upstream token accounting.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Reply is the tagged view of one upstream response, produced once per API
// invocation and consumed exactly once by Extract. At most one of ToolCalls,
// Structured, and Text is meaningful; Extract decides which.
type Reply struct {
	ID      string
	Model   string
	Created int64

	Text       string
	ToolCalls  []ToolCall
	Structured json.RawMessage

	Refused      bool
	FinishReason string
	Usage        Usage
}

// Kind discriminates the extracted result variants.
type Kind int

const (
	KindText Kind = iota
	KindToolCalls
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindToolCalls:
		return "tool_calls"
	case KindStructured:
		return "structured"
	default:
		return "text"
	}
}

// Result is the normalized outcome of one reply. Exactly one variant is set,
// indicated by Kind.
type Result struct {
	Kind       Kind
	Text       string
	ToolCalls  []ToolCall
	Structured map[string]any
}

// MalformedPayloadError reports a structured payload that cannot be
// interpreted as the requested shape.
type MalformedPayloadError struct {
	Field  string
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed structured payload: field %q %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed structured payload: %s", e.Reason)
}

// Extract classifies r into exactly one result variant. Classification order
// is fixed: a non-empty tool-call list wins, then a structured payload checked
// against schema, then text. An empty text field yields Text(""), not an
// error.
func Extract(r Reply, schema map[string]any) (Result, error) {
	if len(r.ToolCalls) > 0 {
		calls := make([]ToolCall, len(r.ToolCalls))
		copy(calls, r.ToolCalls)
		// clone the argument bytes too, so the result shares nothing with r
		for i := range calls {
			if calls[i].Arguments != nil {
				calls[i].Arguments = append(json.RawMessage(nil), calls[i].Arguments...)
			}
		}
		return Result{Kind: KindToolCalls, ToolCalls: calls}, nil
	}

	if r.Structured != nil {
		if !gjson.ValidBytes(r.Structured) {
			return Result{}, &MalformedPayloadError{Reason: "not valid JSON"}
		}
		root := gjson.ParseBytes(r.Structured)
		if !root.IsObject() {
			return Result{}, &MalformedPayloadError{Reason: fmt.Sprintf("expected an object, got %s", root.Type)}
		}
		if err := checkRequired(root, schema, ""); err != nil {
			return Result{}, err
		}

		var payload map[string]any
		if err := json.Unmarshal(r.Structured, &payload); err != nil {
			return Result{}, &MalformedPayloadError{Reason: err.Error()}
		}
		return Result{Kind: KindStructured, Structured: payload}, nil
	}

	return Result{Kind: KindText, Text: r.Text}, nil
}

// checkRequired walks the schema's required lists and verifies every named
// property exists in the payload. Requiredness of nested fields only applies
// underneath parents the payload actually carries as objects.
//
// Property names are matched as literal keys. Path queries would misread
// names containing gjson metacharacters such as "." or "*".
func checkRequired(node gjson.Result, schema map[string]any, path string) error {
	fields := node.Map()

	for _, name := range requiredNames(schema) {
		if _, ok := fields[name]; !ok {
			return &MalformedPayloadError{Field: joinPath(path, name), Reason: "is required but missing"}
		}
	}

	props, _ := schema["properties"].(map[string]any)
	for name, sub := range props {
		child, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		val, ok := fields[name]
		if !ok || !val.IsObject() {
			continue
		}
		if err := checkRequired(val, child, joinPath(path, name)); err != nil {
			return err
		}
	}

	return nil
}

// requiredNames tolerates both []string (Go-constructed schemas) and []any
// (JSON-decoded schemas) under the required key.
func requiredNames(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, entry := range req {
			if name, ok := entry.(string); ok {
				names = append(names, name)
			}
		}
		return names
	default:
		return nil
	}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
