package schemagen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmschema "github.com/dotslashderek/json-schema-llm"
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
	"github.com/dotslashderek/json-schema-llm/schemagen"
)

type book struct {
	Title  string            `json:"title" jsonschema:"description=The book title"`
	Author string            `json:"author"`
	Tags   map[string]string `json:"tags"`
}

func TestGenerate_EmitsResolvableSchema(t *testing.T) {
	doc, err := schemagen.Generate[book]()
	require.NoError(t, err)

	n, err := schema.Parse(doc)
	require.NoError(t, err)
	// Reflection emits a $ref into $defs; the registry must resolve it.
	if n.Ref != "" {
		assert.NotNil(t, n.Defs)
	}
	assert.Contains(t, string(doc), `"title"`)
	assert.Contains(t, string(doc), `"author"`)
}

func TestConvertType_ProducesObjectSchema(t *testing.T) {
	res, err := schemagen.ConvertType[book]()
	require.NoError(t, err)

	assert.Equal(t, "object", res.Schema.Type)
	_, ok := res.Schema.Properties.Get("title")
	assert.True(t, ok)
	_, ok = res.Schema.Properties.Get("author")
	assert.True(t, ok)
	assert.Empty(t, res.ProviderCompatErrors)
}

func TestConvertType_MapFieldFlattened(t *testing.T) {
	res, err := schemagen.ConvertType[book]()
	require.NoError(t, err)

	var found bool
	for _, tr := range res.Codec.Transforms {
		if tr.Type == codec.KindMapToArray && tr.Path == "#/properties/tags" {
			found = true
		}
	}
	assert.True(t, found, "map field should record a map_to_array transform")
}

func TestConvertType_TargetOptionApplies(t *testing.T) {
	res, err := schemagen.ConvertType[book](llmschema.WithTarget(llmschema.TargetGemini))
	require.NoError(t, err)

	tags, ok := res.Schema.Properties.Get("tags")
	require.True(t, ok)
	require.NotNil(t, tags.AdditionalProperties)
	assert.Equal(t, "string", tags.AdditionalProperties.Type)
}

func TestMustGenerate_Succeeds(t *testing.T) {
	assert.NotPanics(t, func() {
		doc := schemagen.MustGenerate[book]()
		assert.NotEmpty(t, doc)
	})
}
