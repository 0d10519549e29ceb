// Package codec defines the sidecar artifact emitted by schema conversion.
// A codec records every structural or lossy transform a pipeline pass applied
// so that model output can later be rehydrated into the original data shape.
// The artifact is self-contained JSON: convert and rehydrate may run in
// different processes.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// SchemaURI identifies the codec artifact format. Bump on breaking changes.
const SchemaURI = "https://dotslashderek.github.io/json-schema-llm/codec/v1"

// Kind names a reversible transform recorded during conversion.
type Kind string

const (
	// KindMapToArray marks a map-like object rewritten to a {key,value} array.
	KindMapToArray Kind = "map_to_array"
	// KindJSONStringParse marks a subtree collapsed to a JSON-encoded string.
	KindJSONStringParse Kind = "json_string_parse"
	// KindRecursiveInflate marks a recursion cutoff replaced by a JSON-encoded
	// string of the referenced subschema.
	KindRecursiveInflate Kind = "recursive_inflate"
	// KindNullableOptional marks an optional property re-encoded as
	// required-but-nullable.
	KindNullableOptional Kind = "nullable_optional"
	// KindDroppedConstraint labels audit entries; it never drives rehydration.
	KindDroppedConstraint Kind = "dropped_constraint"
)

// Transform is one codec entry. Path is a "#"-rooted JSON Pointer valid in
// the converted schema and, by structural correspondence, in conforming data.
// The parameter fields are populated per kind and marshal inline.
type Transform struct {
	Path string `json:"path"`
	Type Kind   `json:"type"`

	// KeyField is the map key property name (map_to_array).
	KeyField string `json:"keyField,omitempty"`
	// Ref is the original reference a cutoff stands in for (recursive_inflate).
	Ref string `json:"ref,omitempty"`
	// OriginalRequired records the pre-conversion requiredness
	// (nullable_optional).
	OriginalRequired *bool `json:"originalRequired,omitempty"`
}

// DroppedConstraint is an audit record of a validation keyword removed for
// provider compatibility. It is never consulted during rehydration; the
// original-schema validation step catches any resulting violations.
type DroppedConstraint struct {
	Path       string `json:"path"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value,omitempty"`
}

// Codec is the versioned container. Transform order equals pass execution
// order; reverse application depends on it.
type Codec struct {
	Schema             string              `json:"$schema"`
	Transforms         []Transform         `json:"transforms"`
	DroppedConstraints []DroppedConstraint `json:"droppedConstraints"`
}

// New returns an empty codec for the current artifact version.
func New() *Codec {
	return &Codec{
		Schema:             SchemaURI,
		Transforms:         []Transform{},
		DroppedConstraints: []DroppedConstraint{},
	}
}

// Record appends a transform in pass order.
func (c *Codec) Record(t Transform) {
	c.Transforms = append(c.Transforms, t)
}

// RecordDrop appends a dropped-constraint audit entry.
func (c *Codec) RecordDrop(d DroppedConstraint) {
	c.DroppedConstraints = append(c.DroppedConstraints, d)
}

// Encode serializes the codec as compact JSON.
func (c *Codec) Encode() ([]byte, error) { return json.Marshal(c) }

// Parse loads a persisted codec, rejecting unknown artifact versions.
func Parse(data []byte) (*Codec, error) {
	var c Codec
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if c.Schema != SchemaURI {
		return nil, fmt.Errorf("codec: unsupported artifact version %q (want %q)", c.Schema, SchemaURI)
	}
	if c.Transforms == nil {
		c.Transforms = []Transform{}
	}
	if c.DroppedConstraints == nil {
		c.DroppedConstraints = []DroppedConstraint{}
	}
	return &c, nil
}
