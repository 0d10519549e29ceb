package llmschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmschema "github.com/dotslashderek/json-schema-llm"
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

const constraintDoc = `{
	"type":"object",
	"properties":{
		"n":{"type":"number","minimum":1,"maximum":10,"multipleOf":2},
		"s":{"type":"string","pattern":"^a","format":"email","minLength":2,"maxLength":5},
		"arr":{"type":"array","items":{"type":"string"},"minItems":1,"maxItems":4,"uniqueItems":true}
	},
	"required":["n","s","arr"]
}`

func hasDrop(c *codec.Codec, path, constraint string) bool {
	for _, d := range c.DroppedConstraints {
		if d.Path == path && d.Constraint == constraint {
			return true
		}
	}
	return false
}

func prop(t *testing.T, n *schema.Node, name string) *schema.Node {
	t.Helper()
	p, ok := n.Properties.Get(name)
	require.True(t, ok, "property %q missing", name)
	return p
}

func TestConstraints_OpenAIStrictDropsBoundsKeepsPattern(t *testing.T) {
	res := mustConvert(t, constraintDoc)

	n := prop(t, res.Schema, "n")
	assert.Nil(t, n.Minimum)
	assert.Nil(t, n.Maximum)
	assert.Nil(t, n.MultipleOf)

	s := prop(t, res.Schema, "s")
	assert.Equal(t, "^a", s.Pattern)
	assert.Equal(t, "email", s.Format)
	assert.Nil(t, s.MinLength)
	assert.Nil(t, s.MaxLength)

	arr := prop(t, res.Schema, "arr")
	assert.Nil(t, arr.MinItems)
	assert.Nil(t, arr.MaxItems)
	assert.Nil(t, arr.UniqueItems)

	assert.True(t, hasDrop(res.Codec, "#/properties/n", "minimum"))
	assert.True(t, hasDrop(res.Codec, "#/properties/n", "maximum"))
	assert.True(t, hasDrop(res.Codec, "#/properties/n", "multipleOf"))
	assert.True(t, hasDrop(res.Codec, "#/properties/s", "minLength"))
	assert.True(t, hasDrop(res.Codec, "#/properties/arr", "uniqueItems"))
	assert.False(t, hasDrop(res.Codec, "#/properties/s", "pattern"))
	assert.False(t, hasDrop(res.Codec, "#/properties/s", "format"))
}

func TestConstraints_ClaudeDropsPatternAndFormat(t *testing.T) {
	res := mustConvert(t, constraintDoc, llmschema.WithTarget(llmschema.TargetClaude))

	s := prop(t, res.Schema, "s")
	assert.Empty(t, s.Pattern)
	assert.Empty(t, s.Format)
	assert.Nil(t, s.MinLength)

	assert.True(t, hasDrop(res.Codec, "#/properties/s", "pattern"))
	assert.True(t, hasDrop(res.Codec, "#/properties/s", "format"))
}

func TestConstraints_GeminiKeepsBoundsAndPattern(t *testing.T) {
	res := mustConvert(t, constraintDoc, llmschema.WithTarget(llmschema.TargetGemini))

	n := prop(t, res.Schema, "n")
	require.NotNil(t, n.Minimum)
	assert.Equal(t, float64(1), *n.Minimum)
	require.NotNil(t, n.Maximum)
	assert.Equal(t, float64(10), *n.Maximum)

	s := prop(t, res.Schema, "s")
	assert.Equal(t, "^a", s.Pattern)
	require.NotNil(t, s.MinLength)
	assert.Equal(t, 2, *s.MinLength)

	arr := prop(t, res.Schema, "arr")
	require.NotNil(t, arr.MinItems)
	assert.Equal(t, 1, *arr.MinItems)

	assert.Empty(t, res.Codec.DroppedConstraints)
}

func TestConstraints_ValidationOnlyKeywordsDropEverywhere(t *testing.T) {
	doc := `{
		"type":"object",
		"properties":{
			"x":{"type":"string","not":{"const":"nope"}},
			"y":{"type":"integer","if":{"minimum":0},"then":{"maximum":10},"else":{"maximum":0},"default":3}
		},
		"required":["x","y"]
	}`
	for _, target := range []llmschema.Target{llmschema.TargetOpenAIStrict, llmschema.TargetGemini, llmschema.TargetClaude} {
		res := mustConvert(t, doc, llmschema.WithTarget(target))

		x := prop(t, res.Schema, "x")
		assert.Nil(t, x.Not, "target %s", target)
		y := prop(t, res.Schema, "y")
		assert.Nil(t, y.If, "target %s", target)
		assert.Nil(t, y.Then, "target %s", target)
		assert.Nil(t, y.Else, "target %s", target)
		assert.Nil(t, y.Default, "target %s", target)

		assert.True(t, hasDrop(res.Codec, "#/properties/x", "not"), "target %s", target)
		assert.True(t, hasDrop(res.Codec, "#/properties/y", "if"), "target %s", target)
		assert.True(t, hasDrop(res.Codec, "#/properties/y", "default"), "target %s", target)
	}
}

func TestConstraints_ConstBecomesSingleEnum(t *testing.T) {
	doc := `{"type":"object","properties":{"kind":{"type":"string","const":"book"}},"required":["kind"]}`

	res := mustConvert(t, doc)
	kind := prop(t, res.Schema, "kind")
	assert.Nil(t, kind.Const)
	assert.Equal(t, []any{"book"}, kind.Enum)

	res = mustConvert(t, doc, llmschema.WithTarget(llmschema.TargetGemini))
	kind = prop(t, res.Schema, "kind")
	assert.Equal(t, "book", kind.Const)
	assert.Nil(t, kind.Enum)
}

func TestConstraints_DroppedValuesRecorded(t *testing.T) {
	res := mustConvert(t, `{"type":"object","properties":{"s":{"type":"string","pattern":"^x","maxLength":9}},"required":["s"]}`,
		llmschema.WithTarget(llmschema.TargetClaude))

	var pattern, maxLength any
	for _, d := range res.Codec.DroppedConstraints {
		switch {
		case d.Path == "#/properties/s" && d.Constraint == "pattern":
			pattern = d.Value
		case d.Path == "#/properties/s" && d.Constraint == "maxLength":
			maxLength = d.Value
		}
	}
	assert.Equal(t, "^x", pattern)
	assert.Equal(t, 9, maxLength)
}
