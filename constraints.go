package llmschema

import (
	"reflect"

	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// Validation-only keywords no structured-output provider enforces.
var universalDrops = []string{
	"not", "if", "then", "else",
	"patternProperties", "minProperties", "maxProperties",
	"default",
}

// Numeric, length, and item-count keywords strict modes reject outright.
var strictDrops = []string{
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	"minLength", "maxLength",
	"minItems", "maxItems", "uniqueItems",
}

// dropKeywords returns the ordered per-target drop list. Order is fixed: the
// audit trail must be byte-stable across runs.
func dropKeywords(t Target) []string {
	switch t {
	case TargetGemini:
		return universalDrops
	case TargetClaude:
		return append(append(append([]string{}, universalDrops...), strictDrops...), "pattern", "format")
	default: // openai-strict keeps pattern and format
		return append(append([]string{}, universalDrops...), strictDrops...)
	}
}

// passConstraints prunes validation-only keywords the target provider cannot
// accept, recording every removal as an audit entry. It also normalizes const
// into a one-member enum and reorders enums so a declared default comes
// first: generators are biased toward earlier options under weak context.
// The audit entries are never consulted by rehydration — validation against
// the original schema independently catches any violation they allowed.
func passConstraints(ctx *passContext) error {
	drops := dropKeywords(ctx.opts.target)
	rewrite := func(n *schema.Node, p string) (*schema.Node, error) {
		return constrainNode(ctx, n, p, drops)
	}
	body, err := rewrite(ctx.root, schema.RootPointer)
	if err != nil {
		return err
	}
	ctx.root = body
	return mapDefs(ctx.root, rewrite)
}

func constrainNode(ctx *passContext, n *schema.Node, path string, drops []string) (*schema.Node, error) {
	if n.IsBool() {
		return n, nil
	}
	if n.Const != nil && ctx.opts.target != TargetGemini {
		n.Enum = []any{n.Const}
		n.Const = nil
	}
	reorderEnumDefaultFirst(n)
	for _, keyword := range drops {
		if value, ok := takeKeyword(n, keyword); ok {
			ctx.codec.RecordDrop(codec.DroppedConstraint{
				Path:       path,
				Constraint: keyword,
				Value:      value,
			})
		}
	}
	err := mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		return constrainNode(ctx, c, p, drops)
	})
	return n, err
}

func reorderEnumDefaultFirst(n *schema.Node) {
	if n.Default == nil || len(n.Enum) == 0 {
		return
	}
	for i, member := range n.Enum {
		if i == 0 {
			if reflect.DeepEqual(member, n.Default) {
				return
			}
			continue
		}
		if reflect.DeepEqual(member, n.Default) {
			reordered := make([]any, 0, len(n.Enum))
			reordered = append(reordered, member)
			reordered = append(reordered, n.Enum[:i]...)
			reordered = append(reordered, n.Enum[i+1:]...)
			n.Enum = reordered
			return
		}
	}
}

// takeKeyword clears one keyword off the node, returning its value and
// whether it was present.
func takeKeyword(n *schema.Node, keyword string) (any, bool) {
	switch keyword {
	case "not":
		return takeNode(&n.Not)
	case "if":
		return takeNode(&n.If)
	case "then":
		return takeNode(&n.Then)
	case "else":
		return takeNode(&n.Else)
	case "patternProperties":
		if n.PatternProperties == nil {
			return nil, false
		}
		v := n.PatternProperties
		n.PatternProperties = nil
		return v, true
	case "minProperties":
		return takeInt(&n.MinProperties)
	case "maxProperties":
		return takeInt(&n.MaxProperties)
	case "default":
		if n.Default == nil {
			return nil, false
		}
		v := n.Default
		n.Default = nil
		return v, true
	case "minimum":
		return takeFloat(&n.Minimum)
	case "maximum":
		return takeFloat(&n.Maximum)
	case "exclusiveMinimum":
		return takeFloat(&n.ExclusiveMinimum)
	case "exclusiveMaximum":
		return takeFloat(&n.ExclusiveMaximum)
	case "multipleOf":
		return takeFloat(&n.MultipleOf)
	case "minLength":
		return takeInt(&n.MinLength)
	case "maxLength":
		return takeInt(&n.MaxLength)
	case "minItems":
		return takeInt(&n.MinItems)
	case "maxItems":
		return takeInt(&n.MaxItems)
	case "uniqueItems":
		if n.UniqueItems == nil {
			return nil, false
		}
		v := *n.UniqueItems
		n.UniqueItems = nil
		return v, true
	case "pattern":
		if n.Pattern == "" {
			return nil, false
		}
		v := n.Pattern
		n.Pattern = ""
		return v, true
	case "format":
		if n.Format == "" {
			return nil, false
		}
		v := n.Format
		n.Format = ""
		return v, true
	default:
		return nil, false
	}
}

func takeNode(slot **schema.Node) (any, bool) {
	if *slot == nil {
		return nil, false
	}
	v := *slot
	*slot = nil
	return v, true
}

func takeInt(slot **int) (any, bool) {
	if *slot == nil {
		return nil, false
	}
	v := **slot
	*slot = nil
	return v, true
}

func takeFloat(slot **float64) (any, bool) {
	if *slot == nil {
		return nil, false
	}
	v := **slot
	*slot = nil
	return v, true
}
