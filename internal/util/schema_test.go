package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	if req == nil { // reflection may produce []any
		ifaceReq, _ := schema["required"].([]any)
		for _, v := range ifaceReq {
			req = append(req, v.(string))
		}
	}
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"x": 3}, schema))
	// JSON numbers decode as float64; whole values still count as integers
	assert.NoError(t, ValidateParameters(map[string]any{"x": float64(3)}, schema))
	assert.Error(t, ValidateParameters(map[string]any{}, schema))
	assert.Error(t, ValidateParameters(map[string]any{"x": "three"}, schema))
}

func TestEmptyObjectSchema(t *testing.T) {
	schema := EmptyObjectSchema()
	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Empty(t, props)
}
