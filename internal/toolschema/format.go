package toolschema

import "github.com/mohae/deepcopy"

// Format describes a structured-output response schema in the shape the
// Responses API expects under text.format.
type Format struct {
	Name        string
	Description string
	Strict      bool
	Schema      map[string]any
}

// NewFormat builds a strict structured-output format from a caller-supplied
// JSON schema. Strict mode has the same closed-schema requirement as function
// tools, so the schema is deep-copied and closed the same way.
func NewFormat(name string, schema map[string]any) Format {
	f := Format{Name: name, Strict: true}
	if schema != nil {
		f.Schema = deepcopy.Copy(schema).(map[string]any)
		closeSchema(f.Schema)
	}
	return f
}
