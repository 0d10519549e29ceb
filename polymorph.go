package llmschema

import "github.com/dotslashderek/json-schema-llm/schema"

// passPolymorph rewrites every oneOf into anyOf. Providers cannot enforce
// "exactly one" exclusivity anyway, and flattening variants into one merged
// object bleeds fields across branches; anyOf keeps each branch's field set
// intact so the generator commits to a single variant.
func passPolymorph(ctx *passContext) error {
	body, err := polymorphNode(ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return mapDefs(ctx.root, polymorphNode)
}

func polymorphNode(n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if n.OneOf != nil {
		n.AnyOf = append(n.AnyOf, n.OneOf...)
		n.OneOf = nil
	}
	return n, mapChildren(n, path, polymorphNode)
}
