// Package schemagen bridges Go types into the conversion pipeline: reflect a
// struct into a JSON Schema, then compile it for a provider in one call.
package schemagen

import (
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	llmschema "github.com/dotslashderek/json-schema-llm"
)

// Reflector drives type reflection. References are kept: the pipeline's
// normalization pass resolves $defs itself, including recursive types.
var Reflector = &jsonschema.Reflector{}

// Generate reflects T into a JSON Schema document. The type should be a
// struct with json and jsonschema tags.
//
//	type Book struct {
//	    Title  string `json:"title" jsonschema:"required,description=The book title"`
//	    Author string `json:"author" jsonschema:"required"`
//	}
func Generate[T any]() ([]byte, error) {
	var zero T
	s := Reflector.Reflect(&zero)
	return json.Marshal(s)
}

// ConvertType reflects T and runs the conversion pipeline over the result.
func ConvertType[T any](opts ...llmschema.Option) (*llmschema.ConvertResult, error) {
	doc, err := Generate[T]()
	if err != nil {
		return nil, err
	}
	return llmschema.Convert(doc, opts...)
}

// MustGenerate is Generate for package-level schema definitions; it panics on
// reflection failure.
func MustGenerate[T any]() []byte {
	doc, err := Generate[T]()
	if err != nil {
		panic(err)
	}
	return doc
}
