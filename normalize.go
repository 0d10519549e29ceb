package llmschema

import (
	"strings"

	"github.com/dotslashderek/json-schema-llm/schema"
)

// hardDepthLimit bounds traversal on adversarial input. Exceeding it is a
// fatal conversion failure, unlike the configurable recursion cutoff which
// only bounds cyclic-reference expansion.
const hardDepthLimit = 64

// passNormalize resolves every acyclic $ref against the definition registry,
// rewrites draft-specific forms (array items, multi-valued type, boolean
// sub-schemas) into one canonical shape, and tags cyclic references for the
// recursion pass. The output tree is self-contained except for those tags.
func passNormalize(ctx *passContext) error {
	root := ctx.root
	reg := collectDefs(root)
	cyc := cyclicRefs(reg)

	for _, set := range []struct {
		props *schema.Properties
		token string
	}{
		{root.Defs, "$defs"}, {root.Definitions, "definitions"},
	} {
		if set.props == nil {
			continue
		}
		for pair := set.props.Oldest(); pair != nil; pair = pair.Next() {
			ref := schema.JoinPointer(schema.RootPointer, set.token, pair.Key)
			n, err := normalizeNode(pair.Value, ref, reg, cyc, map[string]bool{ref: true}, 0)
			if err != nil {
				return err
			}
			set.props.Set(pair.Key, n)
			reg[ref] = n
		}
	}

	body, err := normalizeNode(root, schema.RootPointer, reg, cyc, map[string]bool{}, 0)
	if err != nil {
		return err
	}
	if body != root {
		// The root itself was a reference; keep the registry attached so
		// profiles that retain $refs still emit their targets.
		body.Defs = root.Defs
		body.Definitions = root.Definitions
		if body.Dialect == "" {
			body.Dialect = root.Dialect
		}
	}
	ctx.root = body
	ctx.defs = reg

	// Whole-document self-references ({"$ref": "#"}) expand against a
	// snapshot of the normalized body.
	snapshot := body.Clone()
	snapshot.Defs = nil
	snapshot.Definitions = nil
	snapshot.Dialect = ""
	reg[schema.RootPointer] = snapshot
	return nil
}

func collectDefs(root *schema.Node) map[string]*schema.Node {
	reg := make(map[string]*schema.Node)
	add := func(props *schema.Properties, token string) {
		if props == nil {
			return
		}
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			reg[schema.JoinPointer(schema.RootPointer, token, pair.Key)] = pair.Value
		}
	}
	add(root.Defs, "$defs")
	add(root.Definitions, "definitions")
	return reg
}

// cyclicRefs returns the set of definition refs that can reach themselves
// through the reference graph. Every reference to such a definition is
// deferred to the recursion pass, so the per-branch expansion budget applies
// from the first occurrence.
func cyclicRefs(reg map[string]*schema.Node) map[string]bool {
	edges := make(map[string][]string, len(reg))
	for ref, n := range reg {
		edges[ref] = scanRefs(n, nil)
	}
	cyc := make(map[string]bool)
	for ref := range reg {
		if reaches(ref, ref, edges, map[string]bool{}) {
			cyc[ref] = true
		}
	}
	return cyc
}

func reaches(from, want string, edges map[string][]string, seen map[string]bool) bool {
	for _, next := range edges[from] {
		if next == want {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		if reaches(next, want, edges, seen) {
			return true
		}
	}
	return false
}

func scanRefs(n *schema.Node, acc []string) []string {
	if n == nil || n.IsBool() {
		return acc
	}
	if n.Ref != "" {
		acc = append(acc, n.Ref)
	}
	_ = mapChildren(n, schema.RootPointer, func(c *schema.Node, _ string) (*schema.Node, error) {
		acc = scanRefs(c, acc)
		return c, nil
	})
	return acc
}

func normalizeNode(n *schema.Node, path string, reg map[string]*schema.Node, cyc map[string]bool, stack map[string]bool, depth int) (*schema.Node, error) {
	if depth > hardDepthLimit {
		return nil, errf(CodeDepthExceeded, path, "schema nesting exceeds the traversal ceiling of %d", hardDepthLimit)
	}
	if n == nil {
		return &schema.Node{}, nil
	}
	if n.IsTrue() {
		return &schema.Node{}, nil
	}
	if n.IsFalse() {
		return n, nil
	}

	if len(n.Types) > 0 {
		n = splitTypes(n)
	}
	if len(n.TupleItems) > 0 && n.PrefixItems == nil {
		n.PrefixItems = n.TupleItems
		n.TupleItems = nil
	}
	normalizeBoolChildren(n)

	if n.Ref != "" {
		return resolveRef(n, path, reg, cyc, stack, depth)
	}

	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return normalizeNode(c, p, reg, cyc, stack, depth+1)
	})
	if err != nil {
		return nil, err
	}

	inferType(n)
	return n, nil
}

func resolveRef(n *schema.Node, path string, reg map[string]*schema.Node, cyc map[string]bool, stack map[string]bool, depth int) (*schema.Node, error) {
	ref := n.Ref
	if ref == schema.RootPointer {
		n.Cyclic = true
		return n, nil
	}
	if !strings.HasPrefix(ref, schema.RootPointer+"/") {
		return nil, errf(CodeUnresolvedRef, path, "external reference %q is not supported", ref)
	}
	target, ok := reg[ref]
	if !ok {
		return nil, errf(CodeUnresolvedRef, path, "reference %q does not resolve", ref)
	}
	if cyc[ref] || stack[ref] {
		n.Cyclic = true
		return n, nil
	}
	stack[ref] = true
	defer delete(stack, ref)

	inlined := target.Clone()
	if n.Description != "" && inlined.Description == "" {
		inlined.Description = n.Description
	}
	return normalizeNode(inlined, path, reg, cyc, stack, depth+1)
}

// splitTypes rewrites a multi-valued type keyword into an anyOf of
// single-typed variants carrying the node's other constraints.
func splitTypes(n *schema.Node) *schema.Node {
	if len(n.Types) == 1 {
		n.Type = n.Types[0]
		n.Types = nil
		return n
	}
	variants := make([]*schema.Node, 0, len(n.Types))
	for _, t := range n.Types {
		v := n.Clone()
		v.Types = nil
		v.Type = t
		v.Title = ""
		v.Description = ""
		variants = append(variants, v)
	}
	return &schema.Node{
		Title:       n.Title,
		Description: n.Description,
		AnyOf:       variants,
	}
}

// normalizeBoolChildren rewrites boolean `true` sub-schemas into the empty
// schema so later passes see one canonical "anything" form. `false` stays:
// it is load-bearing for closed tuples and sealed objects.
func normalizeBoolChildren(n *schema.Node) {
	if n.AdditionalProperties.IsTrue() {
		n.AdditionalProperties = nil
	}
	for _, props := range []*schema.Properties{n.Properties, n.PatternProperties} {
		if props == nil {
			continue
		}
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.IsTrue() {
				props.Set(pair.Key, &schema.Node{})
			}
		}
	}
	if n.Items.IsTrue() {
		n.Items = &schema.Node{}
	}
	if n.Contains.IsTrue() {
		n.Contains = &schema.Node{}
	}
	for _, list := range [][]*schema.Node{n.PrefixItems, n.AllOf, n.AnyOf, n.OneOf} {
		for i, c := range list {
			if c.IsTrue() {
				list[i] = &schema.Node{}
			}
		}
	}
	for _, slot := range []**schema.Node{&n.Not, &n.If, &n.Then, &n.Else} {
		if (*slot).IsTrue() {
			*slot = &schema.Node{}
		}
	}
}

// inferType fills in an omitted type keyword implied by shape keywords, so
// detection in later passes and provider pre-flight checks key off one field.
func inferType(n *schema.Node) {
	if n.Type != "" {
		return
	}
	if n.Properties != nil || n.PatternProperties != nil || n.AdditionalProperties != nil {
		n.Type = "object"
		return
	}
	if n.Items != nil || n.PrefixItems != nil || n.Contains != nil {
		n.Type = "array"
	}
}
