package llmschema

import (
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// opaqueInstruction tells the generator how to fill a collapsed subtree. The
// original value survives JSON-encoded inside the string; only generation
// ergonomics degrade, never data.
const opaqueInstruction = "Provide this value as a JSON-encoded string. It is parsed as JSON after generation."

// passOpaque collapses schemas with no usable shape — the empty schema and
// bare {type:"object"} with neither properties nor an additionalProperties
// schema — into described strings that carry JSON-encoded content.
func passOpaque(ctx *passContext) error {
	body, err := opaqueNode(ctx, ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return nil
}

func opaqueNode(ctx *passContext, n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if isShapeless(n) {
		ctx.codec.Record(codec.Transform{Path: path, Type: codec.KindJSONStringParse})
		return opaqueString(n.Description), nil
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return opaqueNode(ctx, c, p)
	})
	return n, err
}

// isShapeless reports whether a node gives the generator nothing to work
// with: no type beyond bare object, no properties, no value schema, no
// composition, and no enumerated values.
func isShapeless(n *schema.Node) bool {
	if n.Ref != "" || n.Enum != nil || n.Const != nil {
		return false
	}
	if n.AllOf != nil || n.AnyOf != nil || n.OneOf != nil || n.Not != nil || n.If != nil {
		return false
	}
	if n.Properties != nil && n.Properties.Len() > 0 {
		return false
	}
	if n.PatternProperties != nil && n.PatternProperties.Len() > 0 {
		return false
	}
	// A schema-valued additionalProperties is a map (dictionary pass), and an
	// explicit false is a deliberately sealed empty object; both have shape.
	if n.AdditionalProperties != nil {
		return false
	}
	switch n.Type {
	case "":
		// Empty schema; metadata-only nodes count as empty.
		return n.Items == nil && n.PrefixItems == nil && n.Contains == nil &&
			n.Pattern == "" && n.Format == "" &&
			n.Minimum == nil && n.Maximum == nil &&
			n.ExclusiveMinimum == nil && n.ExclusiveMaximum == nil &&
			n.MultipleOf == nil && n.MinLength == nil && n.MaxLength == nil
	case "object":
		return true
	default:
		return false
	}
}

func opaqueString(description string) *schema.Node {
	d := opaqueInstruction
	if description != "" {
		d = description + " " + opaqueInstruction
	}
	return &schema.Node{Type: "string", Description: d}
}
