// Package toolschema normalizes heterogeneous tool definitions into the strict
// shape the Responses API requires for function tools.
//
// The Responses API rejects strict function tools whose parameter schemas are
// not closed: every object node must set additionalProperties=false and carry a
// required list. Legacy chat-completions tool definitions rarely do either, so
// Normalize rewrites an owned copy of each schema to satisfy the invariant
// without ever mutating caller data.
package toolschema

import (
	"fmt"
	"sort"

	"github.com/mohae/deepcopy"
)

// Descriptor is a caller-constructed tool definition in its legacy shape:
// a name, a description, and a JSON-Schema-like parameter object. Descriptors
// are treated as immutable; Normalize never writes into them.
type Descriptor struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Tool is a normalized Responses API function tool. Parameters satisfy the
// closed-schema invariant on every object node the normalizer reaches.
type Tool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// DuplicateNameError reports a tool list containing a repeated or empty name.
// Tool names are the model's only handle on a tool, so a collision is a
// configuration bug surfaced immediately rather than papered over.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Name == "" {
		return "tool with empty name"
	}
	return fmt.Sprintf("duplicate tool name %q", e.Name)
}

// Normalize converts descriptors into Responses API function tools, enforcing
// the closed-schema invariant on an owned deep copy of every parameter schema.
// Output order matches input order, one tool per descriptor.
func Normalize(descriptors []Descriptor) ([]Tool, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(descriptors))
	tools := make([]Tool, 0, len(descriptors))
	for _, desc := range descriptors {
		if desc.Name == "" {
			return nil, &DuplicateNameError{Name: ""}
		}
		if _, dup := seen[desc.Name]; dup {
			return nil, &DuplicateNameError{Name: desc.Name}
		}
		seen[desc.Name] = struct{}{}

		var params map[string]any
		if desc.Parameters != nil {
			params = deepcopy.Copy(desc.Parameters).(map[string]any)
			closeSchema(params)
		}

		tools = append(tools, Tool{
			Type:        "function",
			Name:        desc.Name,
			Description: desc.Description,
			Parameters:  params,
		})
	}

	return tools, nil
}

// closeSchema rewrites an object-typed schema node in place so strict mode
// accepts it, then recurses into property values and array item schemas.
//
// Only absence is defaulted: an explicit required list stays exactly as given
// even when it omits declared properties, and a schema-valued
// additionalProperties is left alone. Nodes of unexpected shape pass through
// structurally unchanged.
func closeSchema(node map[string]any) {
	if typ, _ := node["type"].(string); typ == "object" {
		switch open := node["additionalProperties"].(type) {
		case nil:
			node["additionalProperties"] = false
		case bool:
			if open {
				node["additionalProperties"] = false
			}
		}

		if props, ok := node["properties"].(map[string]any); ok {
			if _, ok := node["required"]; !ok {
				// Go maps carry no declaration order; sort for stable output.
				names := make([]string, 0, len(props))
				for name := range props {
					names = append(names, name)
				}
				sort.Strings(names)
				node["required"] = names
			}
		}
	}

	if props, ok := node["properties"].(map[string]any); ok {
		for _, sub := range props {
			if child, ok := sub.(map[string]any); ok {
				closeSchema(child)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		closeSchema(items)
	}
}
