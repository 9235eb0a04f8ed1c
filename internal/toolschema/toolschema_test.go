package toolschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClosesObjectSchema(t *testing.T) {
	tools, err := Normalize([]Descriptor{{
		Name:        "search",
		Description: "Search the index",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"b": map[string]any{"type": "string"},
				"a": map[string]any{"type": "integer"},
			},
		},
	}})
	require.NoError(t, err)
	require.Len(t, tools, 1)

	tool := tools[0]
	assert.Equal(t, "function", tool.Type)
	assert.Equal(t, "search", tool.Name)
	assert.Equal(t, "Search the index", tool.Description)

	assert.Equal(t, false, tool.Parameters["additionalProperties"])
	// absent required defaults to all declared properties, sorted
	assert.Equal(t, []string{"a", "b"}, tool.Parameters["required"])
}

func TestNormalizeKeepsExplicitRequired(t *testing.T) {
	tools, err := Normalize([]Descriptor{{
		Name: "lookup",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":      map[string]any{"type": "string"},
				"verbose": map[string]any{"type": "boolean"},
			},
			"required": []any{"id"},
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, []any{"id"}, tools[0].Parameters["required"])
}

func TestNormalizeRecursesNestedSchemas(t *testing.T) {
	tools, err := Normalize([]Descriptor{{
		Name: "submit",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"item": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
					},
				},
				"tags": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"label": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}})
	require.NoError(t, err)

	props := tools[0].Parameters["properties"].(map[string]any)

	item := props["item"].(map[string]any)
	assert.Equal(t, false, item["additionalProperties"])
	assert.Equal(t, []string{"name"}, item["required"])

	items := props["tags"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, false, items["additionalProperties"])
	assert.Equal(t, []string{"label"}, items["required"])
}

func TestNormalizePreservesSchemaValuedAdditionalProperties(t *testing.T) {
	extra := map[string]any{"type": "string"}
	tools, err := Normalize([]Descriptor{{
		Name: "annotate",
		Parameters: map[string]any{
			"type":                 "object",
			"additionalProperties": extra,
			"properties": map[string]any{
				"key": map[string]any{"type": "string"},
			},
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, extra, tools[0].Parameters["additionalProperties"])
}

func TestNormalizeOverridesOpenAdditionalProperties(t *testing.T) {
	tools, err := Normalize([]Descriptor{{
		Name: "open",
		Parameters: map[string]any{
			"type":                 "object",
			"additionalProperties": true,
			"properties":           map[string]any{},
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, false, tools[0].Parameters["additionalProperties"])
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
	}
	_, err := Normalize([]Descriptor{{Name: "search", Parameters: params}})
	require.NoError(t, err)

	assert.NotContains(t, params, "additionalProperties")
	assert.NotContains(t, params, "required")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, err := Normalize([]Descriptor{{
		Name: "search",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"q": map[string]any{"type": "string"},
			},
		},
	}})
	require.NoError(t, err)

	second, err := Normalize([]Descriptor{{
		Name:       "search",
		Parameters: first[0].Parameters,
	}})
	require.NoError(t, err)

	assert.Equal(t, first[0].Parameters, second[0].Parameters)
}

func TestNormalizeRejectsDuplicateNames(t *testing.T) {
	_, err := Normalize([]Descriptor{
		{Name: "search"},
		{Name: "search"},
	})

	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "search", dupErr.Name)
}

func TestNormalizeRejectsEmptyName(t *testing.T) {
	_, err := Normalize([]Descriptor{{Name: ""}})

	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "", dupErr.Name)
}

func TestNormalizeNilParameters(t *testing.T) {
	tools, err := Normalize([]Descriptor{{Name: "ping"}})
	require.NoError(t, err)
	assert.Nil(t, tools[0].Parameters)
}

func TestNewFormatClosesSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
	}

	format := NewFormat("report", schema)

	assert.Equal(t, "report", format.Name)
	assert.True(t, format.Strict)
	assert.Equal(t, false, format.Schema["additionalProperties"])
	assert.Equal(t, []string{"name", "score"}, format.Schema["required"])

	// the caller's schema is untouched
	assert.NotContains(t, schema, "additionalProperties")
}
