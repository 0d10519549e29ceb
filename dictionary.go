package llmschema

import (
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// mapValueField is the fixed value property name of a map entry. Only the key
// property name is configurable.
const mapValueField = "value"

// passDictionary rewrites map-like objects (a schema-valued
// additionalProperties and no declared properties) into arrays of
// {key, value} entry objects, which strict mode can express. The rewrite is
// recorded so rehydration can fold the entries back into an object.
//
// Rewriting happens top-down: a map value schema may itself be a map, and its
// transform must be recorded at the post-rewrite path.
func passDictionary(ctx *passContext) error {
	body, err := dictionaryNode(ctx, ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return nil
}

func dictionaryNode(ctx *passContext, n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if isMapLike(n) {
		n = rewriteMap(ctx, n, path)
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return dictionaryNode(ctx, c, p)
	})
	return n, err
}

func isMapLike(n *schema.Node) bool {
	if n.Type != "object" && n.Type != "" {
		return false
	}
	if n.AdditionalProperties == nil || n.AdditionalProperties.IsBool() {
		return false
	}
	return n.Properties == nil || n.Properties.Len() == 0
}

func rewriteMap(ctx *passContext, n *schema.Node, path string) *schema.Node {
	keyField := ctx.opts.mapKeyField
	entryProps := schema.NewProperties()
	entryProps.Set(keyField, &schema.Node{Type: "string"})
	entryProps.Set(mapValueField, n.AdditionalProperties)

	out := &schema.Node{
		Title:       n.Title,
		Description: n.Description,
		Type:        "array",
		Items: &schema.Node{
			Type:       "object",
			Properties: entryProps,
			Required:   []string{keyField, mapValueField},
		},
		// Entry-count bounds carry over from the property-count bounds.
		MinItems: n.MinProperties,
		MaxItems: n.MaxProperties,
	}
	ctx.codec.Record(codec.Transform{
		Path:     path,
		Type:     codec.KindMapToArray,
		KeyField: keyField,
	})
	return out
}
