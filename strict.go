package llmschema

import (
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// passStrict seals every object and promotes every declared property to
// required, which strict structured-output modes demand. A property that was
// not originally required becomes nullable instead: absence is re-encoded as
// an explicit null, and the codec entry lets rehydration turn the null back
// into a missing key. Nothing is lost.
func passStrict(ctx *passContext) error {
	body, err := strictNode(ctx, ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return mapDefs(ctx.root, func(n *schema.Node, p string) (*schema.Node, error) {
		return strictNode(ctx, n, p)
	})
}

func strictNode(ctx *passContext, n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if n.Type == "object" {
		sealObject(ctx, n, path)
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return strictNode(ctx, c, p)
	})
	return n, err
}

func sealObject(ctx *passContext, n *schema.Node, path string) {
	// A schema-valued additionalProperties survives only on profiles that
	// keep native maps; never overwrite it.
	if n.AdditionalProperties == nil || n.AdditionalProperties.IsBool() {
		n.AdditionalProperties = schema.BoolNode(false)
	}
	if n.Properties == nil || n.Properties.Len() == 0 {
		return
	}

	origRequired := make(map[string]bool, len(n.Required))
	for _, k := range n.Required {
		origRequired[k] = true
	}

	required := make([]string, 0, n.Properties.Len())
	for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
		required = append(required, pair.Key)
		if origRequired[pair.Key] {
			continue
		}
		if !allowsNull(pair.Value) {
			n.Properties.Set(pair.Key, nullableWrap(pair.Value))
		}
		wasRequired := false
		ctx.codec.Record(codec.Transform{
			Path:             schema.JoinPointer(path, "properties", pair.Key),
			Type:             codec.KindNullableOptional,
			OriginalRequired: &wasRequired,
		})
	}
	n.Required = required
}

func nullableWrap(n *schema.Node) *schema.Node {
	return &schema.Node{AnyOf: []*schema.Node{n, {Type: "null"}}}
}

func allowsNull(n *schema.Node) bool {
	if n == nil || n.IsTrue() {
		return true
	}
	if n.Type == "null" {
		return true
	}
	for _, variants := range [][]*schema.Node{n.AnyOf, n.OneOf} {
		for _, v := range variants {
			if v != nil && v.Type == "null" {
				return true
			}
		}
	}
	for _, member := range n.Enum {
		if member == nil {
			return true
		}
	}
	return false
}
