package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotslashderek/json-schema-llm/schema"
)

func TestJoinPointer_EscapesTokens(t *testing.T) {
	p := schema.JoinPointer(schema.RootPointer, "properties", "a/b", "c~d")
	assert.Equal(t, "#/properties/a~1b/c~0d", p)
}

func TestSplitPointer_Roundtrip(t *testing.T) {
	tokens := []string{"properties", "a/b", "c~d", "items"}
	p := schema.JoinPointer(schema.RootPointer, tokens...)

	got, err := schema.SplitPointer(p)
	require.NoError(t, err)
	assert.Equal(t, tokens, got)
}

func TestSplitPointer_Root(t *testing.T) {
	tokens, err := schema.SplitPointer(schema.RootPointer)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestSplitPointer_RejectsUnrooted(t *testing.T) {
	_, err := schema.SplitPointer("/properties/a")
	require.Error(t, err)

	_, err = schema.SplitPointer("properties/a")
	require.Error(t, err)
}

func TestEscapeToken_OrderMatters(t *testing.T) {
	// "~1" in the input must not round-trip into a "/".
	assert.Equal(t, "~01", schema.EscapeToken("~1"))
	assert.Equal(t, "~1", schema.UnescapeToken("~01"))
}
