package codec_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotslashderek/json-schema-llm/codec"
)

func TestNew_Empty(t *testing.T) {
	c := codec.New()
	assert.Equal(t, codec.SchemaURI, c.Schema)
	assert.NotNil(t, c.Transforms)
	assert.Empty(t, c.Transforms)
	assert.NotNil(t, c.DroppedConstraints)
	assert.Empty(t, c.DroppedConstraints)
}

func TestEncodeParse_Roundtrip(t *testing.T) {
	c := codec.New()
	wasRequired := false
	c.Record(codec.Transform{Path: "#/properties/tags", Type: codec.KindMapToArray, KeyField: "key"})
	c.Record(codec.Transform{Path: "#/properties/opt", Type: codec.KindNullableOptional, OriginalRequired: &wasRequired})
	c.RecordDrop(codec.DroppedConstraint{Path: "#/properties/n", Constraint: "minimum", Value: float64(1)})

	encoded, err := c.Encode()
	require.NoError(t, err)

	parsed, err := codec.Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, c.Schema, parsed.Schema)
	require.Len(t, parsed.Transforms, 2)
	assert.Equal(t, codec.KindMapToArray, parsed.Transforms[0].Type)
	assert.Equal(t, "key", parsed.Transforms[0].KeyField)
	require.NotNil(t, parsed.Transforms[1].OriginalRequired)
	assert.False(t, *parsed.Transforms[1].OriginalRequired)
	require.Len(t, parsed.DroppedConstraints, 1)
	assert.Equal(t, "minimum", parsed.DroppedConstraints[0].Constraint)
}

func TestEncode_Shape(t *testing.T) {
	c := codec.New()
	c.Record(codec.Transform{Path: "#", Type: codec.KindJSONStringParse})

	encoded, err := c.Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(encoded, &raw))
	assert.Equal(t, codec.SchemaURI, raw["$schema"])

	transforms := raw["transforms"].([]any)
	require.Len(t, transforms, 1)
	entry := transforms[0].(map[string]any)
	assert.Equal(t, "json_string_parse", entry["type"])
	// Per-kind parameters marshal inline and only when set.
	_, hasKeyField := entry["keyField"]
	assert.False(t, hasKeyField)
	_, hasRef := entry["ref"]
	assert.False(t, hasRef)
}

func TestParse_RejectsUnknownVersion(t *testing.T) {
	_, err := codec.Parse([]byte(`{"$schema":"https://example.com/codec/v999","transforms":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported artifact version")
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	_, err := codec.Parse([]byte(`{`))
	require.Error(t, err)
}

func TestParse_NormalizesMissingLists(t *testing.T) {
	parsed, err := codec.Parse([]byte(`{"$schema":"` + codec.SchemaURI + `"}`))
	require.NoError(t, err)
	assert.NotNil(t, parsed.Transforms)
	assert.NotNil(t, parsed.DroppedConstraints)
}
