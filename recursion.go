package llmschema

import (
	"fmt"

	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// passRecursion expands the cyclic references normalization left in place.
// Each reference expands up to maxDepth times per traversal branch; past the
// cutoff the subtree becomes a described string and a recursive_inflate
// transform records which subschema the string stands in for. The registry is
// no longer referenced afterwards, so $defs are dropped from the output.
func passRecursion(ctx *passContext) error {
	body, err := recursionNode(ctx, ctx.root, schema.RootPointer, map[string]int{})
	if err != nil {
		return err
	}
	body.Defs = nil
	body.Definitions = nil
	ctx.root = body
	return nil
}

func recursionNode(ctx *passContext, n *schema.Node, path string, counts map[string]int) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if n.Ref != "" {
		return expandRef(ctx, n, path, counts)
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return recursionNode(ctx, c, p, counts)
	})
	return n, err
}

func expandRef(ctx *passContext, n *schema.Node, path string, counts map[string]int) (*schema.Node, error) {
	ref := n.Ref
	target, ok := ctx.defs[ref]
	if !ok {
		// Normalization already resolved or rejected everything else.
		return nil, errf(CodeUnresolvedRef, path, "reference %q does not resolve", ref)
	}
	if counts[ref] >= ctx.opts.maxDepth {
		ctx.codec.Record(codec.Transform{
			Path: path,
			Type: codec.KindRecursiveInflate,
			Ref:  ref,
		})
		out := opaqueString(fmt.Sprintf("Continuation of the recursive structure %s.", ref))
		return out, nil
	}
	counts[ref]++
	defer func() { counts[ref]-- }()

	inlined := target.Clone()
	if n.Description != "" && inlined.Description == "" {
		inlined.Description = n.Description
	}
	inlined, err := inlineRewrites(ctx, inlined, path)
	if err != nil {
		return nil, err
	}
	return recursionNode(ctx, inlined, path, counts)
}

// inlineRewrites applies the dictionary and opaque rewrites to an inlined
// definition body. Those passes run before expansion and never visit $defs,
// so the rewrites happen here, at the subtree's concrete path, keeping the
// recorded codec paths data-correspondent.
func inlineRewrites(ctx *passContext, n *schema.Node, path string) (*schema.Node, error) {
	n, err := dictionaryNode(ctx, n, path)
	if err != nil {
		return nil, err
	}
	return opaqueNode(ctx, n, path)
}
