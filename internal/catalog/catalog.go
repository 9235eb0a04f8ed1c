// Package catalog defines the built-in tool definitions the bridge exposes on
// its tool listing endpoint. Schemas are reflected from typed argument structs
// so the Go types stay the single source of truth.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/tmessner/responsum/internal/toolschema"
)

// ReadFileArgs are the arguments for the read_file tool.
type ReadFileArgs struct {
	FilePath string `json:"file_path" jsonschema_description:"Absolute path of the file to read"`
	Offset   int    `json:"offset,omitempty" jsonschema_description:"Line number to start reading from"`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum number of lines to return"`
}

// WriteFileArgs are the arguments for the write_file tool.
type WriteFileArgs struct {
	FilePath string `json:"file_path" jsonschema_description:"Absolute path of the file to write"`
	Content  string `json:"content" jsonschema_description:"Full content to write to the file"`
}

// ExecuteCommandArgs are the arguments for the execute_command tool.
type ExecuteCommandArgs struct {
	Command    string `json:"command" jsonschema_description:"Shell command to execute"`
	WorkingDir string `json:"working_dir,omitempty" jsonschema_description:"Directory to run the command in"`
	TimeoutMS  int    `json:"timeout_ms,omitempty" jsonschema_description:"Execution timeout in milliseconds"`
}

// SearchCodeArgs are the arguments for the search_code tool.
type SearchCodeArgs struct {
	Pattern string `json:"pattern" jsonschema_description:"Regular expression to search for"`
	Path    string `json:"path,omitempty" jsonschema_description:"Directory or file to search in"`
	Glob    string `json:"glob,omitempty" jsonschema_description:"Glob filter for file names"`
}

// Descriptors returns the raw tool descriptors of the built-in catalog. The
// schemas are open JSON Schema as produced by reflection; callers normalize
// them with toolschema.Normalize before attaching to a request.
func Descriptors() []toolschema.Descriptor {
	return []toolschema.Descriptor{
		{
			Name:        "read_file",
			Description: "Read a file from the workspace, optionally a line range.",
			Parameters:  mustSchema[ReadFileArgs](),
		},
		{
			Name:        "write_file",
			Description: "Create or overwrite a file in the workspace.",
			Parameters:  mustSchema[WriteFileArgs](),
		},
		{
			Name:        "execute_command",
			Description: "Run a shell command and return its combined output.",
			Parameters:  mustSchema[ExecuteCommandArgs](),
		},
		{
			Name:        "search_code",
			Description: "Search workspace files for a regular expression.",
			Parameters:  mustSchema[SearchCodeArgs](),
		},
	}
}

// mustSchema reflects T into a plain map schema. Reflection only depends on
// the struct definition, so failures are programming errors and panic.
func mustSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("marshal reflected schema for %T: %v", v, err))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("unmarshal reflected schema for %T: %v", v, err))
	}
	delete(out, "$schema")
	return out
}
