package llmschema

import (
	json "github.com/goccy/go-json"

	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// passAdaptive stringifies constructs providers mishandle even when nominally
// accepted: closed tuples (prefixItems with items:false), contains, and enums
// whose members are objects or arrays. The mechanism is the same as the
// opaque pass; the codec entry is a json_string_parse either way.
//
// Retained definitions are left alone: a transform recorded under $defs has
// no single data location to reverse at, so stringifying there would strand
// the generated values as strings.
func passAdaptive(ctx *passContext) error {
	body, err := adaptiveNode(ctx, ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return nil
}

func adaptiveNode(ctx *passContext, n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if isClosedTuple(n) || n.Contains != nil {
		ctx.codec.Record(codec.Transform{Path: path, Type: codec.KindJSONStringParse})
		return opaqueString(n.Description), nil
	}
	if hasCompositeMembers(n.Enum) {
		out, err := stringifyEnum(n)
		if err != nil {
			return nil, err
		}
		ctx.codec.Record(codec.Transform{Path: path, Type: codec.KindJSONStringParse})
		return out, nil
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return adaptiveNode(ctx, c, p)
	})
	return n, err
}

func isClosedTuple(n *schema.Node) bool {
	return n.PrefixItems != nil && n.Items.IsFalse()
}

func hasCompositeMembers(enum []any) bool {
	for _, m := range enum {
		switch m.(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

// stringifyEnum keeps the enum usable by re-encoding every member as its
// canonical JSON text, turning the node into a string enum.
func stringifyEnum(n *schema.Node) (*schema.Node, error) {
	members := make([]any, 0, len(n.Enum))
	for _, m := range n.Enum {
		encoded, err := json.Marshal(m)
		if err != nil {
			return nil, errf(CodeInvalidSchema, "", "enum member is not JSON-encodable: %v", err)
		}
		members = append(members, string(encoded))
	}
	d := opaqueInstruction
	if n.Description != "" {
		d = n.Description + " " + opaqueInstruction
	}
	return &schema.Node{Type: "string", Enum: members, Description: d}, nil
}
