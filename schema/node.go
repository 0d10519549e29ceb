// Package schema holds the tree representation of a JSON Schema document
// used by the conversion pipeline, together with JSON Pointer utilities.
package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is an insertion-ordered map of property name to sub-schema.
// Ordering matters: converted schemas must serialize byte-identically for
// identical inputs, and required-field ordering follows declaration order.
type Properties = orderedmap.OrderedMap[string, *Node]

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties { return orderedmap.New[string, *Node]() }

// Node is a single JSON Schema node restricted to the keyword categories the
// pipeline understands: reference, composition, enum/const, object, array,
// string/numeric constraints, and the boolean/empty forms. Unknown keywords
// are dropped on decode.
//
// A Node with Boolean set represents the boolean schemas `true`/`false`; all
// other fields are ignored in that case.
type Node struct {
	Boolean *bool `json:"-"`

	// Types holds a multi-valued `type` keyword as decoded; normalization
	// rewrites it into anyOf form and clears it.
	Types []string `json:"-"`
	// TupleItems holds draft-07 array-form `items` as decoded; normalization
	// moves it to PrefixItems.
	TupleItems []*Node `json:"-"`
	// Cyclic marks a $ref that participates in a reference cycle and is
	// therefore left unexpanded until the recursion pass.
	Cyclic bool `json:"-"`

	Dialect string      `json:"$schema,omitempty"`
	ID      string      `json:"$id,omitempty"`
	Ref     string      `json:"$ref,omitempty"`
	Defs    *Properties `json:"$defs,omitempty"`
	// Definitions is the draft-07 spelling of $defs.
	Definitions *Properties `json:"definitions,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type    string `json:"type,omitempty"`
	Enum    []any  `json:"enum,omitempty"`
	Const   any    `json:"const,omitempty"`
	Default any    `json:"default,omitempty"`
	Format  string `json:"format,omitempty"`

	AllOf []*Node `json:"allOf,omitempty"`
	AnyOf []*Node `json:"anyOf,omitempty"`
	OneOf []*Node `json:"oneOf,omitempty"`
	Not   *Node   `json:"not,omitempty"`
	If    *Node   `json:"if,omitempty"`
	Then  *Node   `json:"then,omitempty"`
	Else  *Node   `json:"else,omitempty"`

	Properties           *Properties `json:"properties,omitempty"`
	Required             []string    `json:"required,omitempty"`
	AdditionalProperties *Node       `json:"additionalProperties,omitempty"`
	PatternProperties    *Properties `json:"patternProperties,omitempty"`
	MinProperties        *int        `json:"minProperties,omitempty"`
	MaxProperties        *int        `json:"maxProperties,omitempty"`

	Items       *Node   `json:"items,omitempty"`
	PrefixItems []*Node `json:"prefixItems,omitempty"`
	Contains    *Node   `json:"contains,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems *bool   `json:"uniqueItems,omitempty"`

	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
}

// BoolNode returns the boolean schema `true` or `false`.
func BoolNode(b bool) *Node { return &Node{Boolean: &b} }

// IsBool reports whether n is a boolean schema.
func (n *Node) IsBool() bool { return n != nil && n.Boolean != nil }

// IsFalse reports whether n is the boolean schema `false`.
func (n *Node) IsFalse() bool { return n.IsBool() && !*n.Boolean }

// IsTrue reports whether n is the boolean schema `true`.
func (n *Node) IsTrue() bool { return n.IsBool() && *n.Boolean }

// NodeFields mirrors Node for (un)marshalling without recursing into the
// custom JSON methods. Field order here fixes the key order of emitted
// schemas. The type must be exported: the JSON decoder cannot set an
// embedded pointer to an unexported struct type.
type NodeFields Node

// MarshalJSON emits the node as a JSON Schema object, or as a bare boolean
// for boolean schemas. Key order follows struct field order and is stable.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Boolean != nil {
		return json.Marshal(*n.Boolean)
	}
	return json.Marshal((*NodeFields)(n))
}

// UnmarshalJSON accepts boolean schemas, multi-valued `type`, array-form
// `items`, and boolean `exclusiveMinimum`/`exclusiveMaximum` (draft-04),
// parking the non-canonical forms for the normalization pass.
func (n *Node) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return fmt.Errorf("schema: empty node")
	}
	if raw[0] == 't' || raw[0] == 'f' {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		*n = Node{Boolean: &b}
		return nil
	}

	aux := struct {
		*NodeFields
		RawType    json.RawMessage `json:"type"`
		RawItems   json.RawMessage `json:"items"`
		RawExclMin json.RawMessage `json:"exclusiveMinimum"`
		RawExclMax json.RawMessage `json:"exclusiveMaximum"`
	}{NodeFields: (*NodeFields)(n)}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}

	if err := n.decodeType(aux.RawType); err != nil {
		return err
	}
	if err := n.decodeItems(aux.RawItems); err != nil {
		return err
	}
	if f, err := decodeNumericBound(aux.RawExclMin); err != nil {
		return err
	} else if f != nil {
		n.ExclusiveMinimum = f
	}
	if f, err := decodeNumericBound(aux.RawExclMax); err != nil {
		return err
	} else if f != nil {
		n.ExclusiveMaximum = f
	}
	return nil
}

func (n *Node) decodeType(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, &n.Types)
	}
	return json.Unmarshal(raw, &n.Type)
}

func (n *Node) decodeItems(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, &n.TupleItems)
	}
	var item Node
	if err := json.Unmarshal(raw, &item); err != nil {
		return err
	}
	n.Items = &item
	return nil
}

// decodeNumericBound reads a numeric exclusive bound, silently discarding the
// draft-04 boolean form (its companion minimum/maximum still applies).
func decodeNumericBound(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 't' || raw[0] == 'f' {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Parse decodes a JSON Schema document into a Node tree.
func Parse(doc []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(doc, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Encode serializes the node as compact JSON.
func (n *Node) Encode() ([]byte, error) { return json.Marshal(n) }

// Equal reports structural equality via canonical serialization.
func Equal(a, b *Node) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Clone returns a deep copy of the node tree. Enum, const and default values
// are shared; passes treat them as immutable and copy slices before reorder.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Boolean != nil {
		b := *n.Boolean
		out.Boolean = &b
	}
	out.Types = append([]string(nil), n.Types...)
	out.TupleItems = cloneSlice(n.TupleItems)
	out.Defs = cloneProps(n.Defs)
	out.Definitions = cloneProps(n.Definitions)
	out.Enum = append([]any(nil), n.Enum...)
	out.AllOf = cloneSlice(n.AllOf)
	out.AnyOf = cloneSlice(n.AnyOf)
	out.OneOf = cloneSlice(n.OneOf)
	out.Not = n.Not.Clone()
	out.If = n.If.Clone()
	out.Then = n.Then.Clone()
	out.Else = n.Else.Clone()
	out.Properties = cloneProps(n.Properties)
	out.Required = append([]string(nil), n.Required...)
	out.AdditionalProperties = n.AdditionalProperties.Clone()
	out.PatternProperties = cloneProps(n.PatternProperties)
	out.MinProperties = cloneInt(n.MinProperties)
	out.MaxProperties = cloneInt(n.MaxProperties)
	out.Items = n.Items.Clone()
	out.PrefixItems = cloneSlice(n.PrefixItems)
	out.Contains = n.Contains.Clone()
	out.MinItems = cloneInt(n.MinItems)
	out.MaxItems = cloneInt(n.MaxItems)
	out.UniqueItems = cloneBool(n.UniqueItems)
	out.MinLength = cloneInt(n.MinLength)
	out.MaxLength = cloneInt(n.MaxLength)
	out.Minimum = cloneFloat(n.Minimum)
	out.Maximum = cloneFloat(n.Maximum)
	out.ExclusiveMinimum = cloneFloat(n.ExclusiveMinimum)
	out.ExclusiveMaximum = cloneFloat(n.ExclusiveMaximum)
	out.MultipleOf = cloneFloat(n.MultipleOf)
	return &out
}

func cloneSlice(ns []*Node) []*Node {
	if ns == nil {
		return nil
	}
	out := make([]*Node, len(ns))
	for i, c := range ns {
		out[i] = c.Clone()
	}
	return out
}

func cloneProps(p *Properties) *Properties {
	if p == nil {
		return nil
	}
	out := NewProperties()
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone())
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
