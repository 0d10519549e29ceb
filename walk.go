package llmschema

import (
	"strconv"

	"github.com/dotslashderek/json-schema-llm/schema"
)

// rewriteFn transforms one child node, returning its replacement. The path is
// the child's "#"-rooted pointer in the current tree.
type rewriteFn func(n *schema.Node, path string) (*schema.Node, error)

// mapChildren applies f to every direct sub-schema slot of n and writes the
// result back. Boolean children are skipped (they have no interior), as are
// $defs/definitions, which passes handle explicitly when they need to.
func mapChildren(n *schema.Node, path string, f rewriteFn) error {
	if n == nil || n.IsBool() {
		return nil
	}
	if err := mapProps(n.Properties, schema.JoinPointer(path, "properties"), f); err != nil {
		return err
	}
	if err := mapProps(n.PatternProperties, schema.JoinPointer(path, "patternProperties"), f); err != nil {
		return err
	}
	if n.AdditionalProperties != nil && !n.AdditionalProperties.IsBool() {
		next, err := f(n.AdditionalProperties, schema.JoinPointer(path, "additionalProperties"))
		if err != nil {
			return err
		}
		n.AdditionalProperties = next
	}
	if n.Items != nil && !n.Items.IsBool() {
		next, err := f(n.Items, schema.JoinPointer(path, "items"))
		if err != nil {
			return err
		}
		n.Items = next
	}
	if err := mapList(n.PrefixItems, schema.JoinPointer(path, "prefixItems"), f); err != nil {
		return err
	}
	if n.Contains != nil && !n.Contains.IsBool() {
		next, err := f(n.Contains, schema.JoinPointer(path, "contains"))
		if err != nil {
			return err
		}
		n.Contains = next
	}
	if err := mapList(n.AllOf, schema.JoinPointer(path, "allOf"), f); err != nil {
		return err
	}
	if err := mapList(n.AnyOf, schema.JoinPointer(path, "anyOf"), f); err != nil {
		return err
	}
	if err := mapList(n.OneOf, schema.JoinPointer(path, "oneOf"), f); err != nil {
		return err
	}
	for _, slot := range []struct {
		node **schema.Node
		name string
	}{
		{&n.Not, "not"}, {&n.If, "if"}, {&n.Then, "then"}, {&n.Else, "else"},
	} {
		if *slot.node == nil || (*slot.node).IsBool() {
			continue
		}
		next, err := f(*slot.node, schema.JoinPointer(path, slot.name))
		if err != nil {
			return err
		}
		*slot.node = next
	}
	return nil
}

func mapProps(p *schema.Properties, base string, f rewriteFn) error {
	if p == nil {
		return nil
	}
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil || pair.Value.IsBool() {
			continue
		}
		next, err := f(pair.Value, schema.JoinPointer(base, pair.Key))
		if err != nil {
			return err
		}
		p.Set(pair.Key, next)
	}
	return nil
}

func mapList(list []*schema.Node, base string, f rewriteFn) error {
	for i, c := range list {
		if c == nil || c.IsBool() {
			continue
		}
		next, err := f(c, schema.JoinPointer(base, strconv.Itoa(i)))
		if err != nil {
			return err
		}
		list[i] = next
	}
	return nil
}

// mapDefs applies f to every named definition of the root node. Used by the
// passes that must keep retained $defs consistent with the converted body
// (the gemini profile keeps recursive references in place).
func mapDefs(root *schema.Node, f rewriteFn) error {
	for _, set := range []struct {
		props *schema.Properties
		name  string
	}{
		{root.Defs, "$defs"}, {root.Definitions, "definitions"},
	} {
		if set.props == nil {
			continue
		}
		base := schema.JoinPointer(schema.RootPointer, set.name)
		if err := mapProps(set.props, base, f); err != nil {
			return err
		}
	}
	return nil
}
