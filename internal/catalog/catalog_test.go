package catalog

import (
	"testing"

	"github.com/tmessner/responsum/internal/toolschema"
)

func TestDescriptorsHaveUniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, desc := range Descriptors() {
		if desc.Name == "" {
			t.Error("Descriptor with empty name")
		}
		if seen[desc.Name] {
			t.Errorf("Duplicate descriptor name %q", desc.Name)
		}
		seen[desc.Name] = true
	}
}

func TestDescriptorsNormalize(t *testing.T) {
	tools, err := toolschema.Normalize(Descriptors())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	for _, tool := range tools {
		if tool.Parameters == nil {
			t.Errorf("tool %q has no parameter schema", tool.Name)
			continue
		}
		if tool.Parameters["additionalProperties"] != false {
			t.Errorf("tool %q: additionalProperties = %v, want false", tool.Name, tool.Parameters["additionalProperties"])
		}
		if _, ok := tool.Parameters["required"]; !ok {
			t.Errorf("tool %q: missing required list", tool.Name)
		}
	}
}

func TestReadFileSchemaShape(t *testing.T) {
	var readFile *toolschema.Descriptor
	for _, desc := range Descriptors() {
		if desc.Name == "read_file" {
			d := desc
			readFile = &d
			break
		}
	}
	if readFile == nil {
		t.Fatal("read_file descriptor missing")
	}

	props, ok := readFile.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatalf("read_file schema has no properties: %v", readFile.Parameters)
	}
	if _, ok := props["file_path"]; !ok {
		t.Error("read_file schema missing file_path property")
	}
}
