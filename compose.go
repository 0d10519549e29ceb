package llmschema

import (
	"strconv"

	"github.com/dotslashderek/json-schema-llm/schema"
)

// passCompose merges allOf members into their parent node, bottom-up so that
// nested allOf groups are flat before the parent absorbs them. Property sets
// and required arrays are unioned; numeric ranges and length bounds are
// intersected. Any other keyword collision resolves later-wins: that rule is
// a declared approximation, preserved exactly, not a merge proof.
func passCompose(ctx *passContext) error {
	body, err := composeNode(ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return mapDefs(ctx.root, composeNode)
}

func composeNode(n *schema.Node, path string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if err := mapChildren(n, path, composeNode); err != nil {
		return nil, err
	}
	if len(n.AllOf) == 0 {
		return n, nil
	}
	members := n.AllOf
	n.AllOf = nil
	for i, m := range members {
		if m == nil || m.IsBool() {
			continue
		}
		// Normalization inlines every acyclic reference, so a surviving $ref
		// here is cyclic and has no finite expansion to merge.
		if m.Ref != "" {
			return nil, errf(CodeInvalidSchema, schema.JoinPointer(path, "allOf", strconv.Itoa(i)),
				"recursive reference %q cannot be merged with its allOf siblings", m.Ref)
		}
		mergeInto(n, m)
	}
	inferType(n)
	return n, nil
}

// mergeInto folds src into dst. src is the later branch and wins conflicts.
func mergeInto(dst, src *schema.Node) {
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Properties != nil {
		if dst.Properties == nil {
			dst.Properties = schema.NewProperties()
		}
		for pair := src.Properties.Oldest(); pair != nil; pair = pair.Next() {
			dst.Properties.Set(pair.Key, pair.Value)
		}
	}
	dst.Required = unionStrings(dst.Required, src.Required)

	dst.Minimum = maxBound(dst.Minimum, src.Minimum)
	dst.ExclusiveMinimum = maxBound(dst.ExclusiveMinimum, src.ExclusiveMinimum)
	dst.Maximum = minBound(dst.Maximum, src.Maximum)
	dst.ExclusiveMaximum = minBound(dst.ExclusiveMaximum, src.ExclusiveMaximum)
	dst.MinLength = maxIntBound(dst.MinLength, src.MinLength)
	dst.MaxLength = minIntBound(dst.MaxLength, src.MaxLength)
	dst.MinItems = maxIntBound(dst.MinItems, src.MinItems)
	dst.MaxItems = minIntBound(dst.MaxItems, src.MaxItems)
	dst.MinProperties = maxIntBound(dst.MinProperties, src.MinProperties)
	dst.MaxProperties = minIntBound(dst.MaxProperties, src.MaxProperties)

	if src.MultipleOf != nil {
		dst.MultipleOf = src.MultipleOf
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Enum != nil {
		dst.Enum = src.Enum
	}
	if src.Const != nil {
		dst.Const = src.Const
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if src.Items != nil {
		dst.Items = src.Items
	}
	if src.PrefixItems != nil {
		dst.PrefixItems = src.PrefixItems
	}
	if src.Contains != nil {
		dst.Contains = src.Contains
	}
	if src.AdditionalProperties != nil {
		dst.AdditionalProperties = src.AdditionalProperties
	}
	if src.PatternProperties != nil {
		dst.PatternProperties = src.PatternProperties
	}
	if src.AnyOf != nil {
		dst.AnyOf = src.AnyOf
	}
	if src.OneOf != nil {
		dst.OneOf = src.OneOf
	}
	if src.Not != nil {
		dst.Not = src.Not
	}
	if src.UniqueItems != nil {
		dst.UniqueItems = src.UniqueItems
	}
	if src.Description != "" && dst.Description == "" {
		dst.Description = src.Description
	}
}

func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a))
	out := a
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func maxBound(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b > *a:
		return b
	default:
		return a
	}
}

func minBound(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b < *a:
		return b
	default:
		return a
	}
}

func maxIntBound(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b > *a:
		return b
	default:
		return a
	}
}

func minIntBound(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b < *a:
		return b
	default:
		return a
	}
}
