// Package validate checks rehydrated data against the original,
// pre-conversion schema with full JSON Schema semantics — including any
// constraint the conversion pruned from the provider-facing schema.
package validate

import (
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	defaultOnce    sync.Once
	defaultChecker *Checker
)

// Against validates data against the schema document using a process-wide
// cached checker. It returns the complete list of violations (never
// fail-fast) so callers can decide whether to retry generation; an empty list
// means valid. The error return covers an uncompilable schema only.
func Against(schemaDoc []byte, data any) ([]string, error) {
	defaultOnce.Do(func() {
		c, err := NewChecker(DefaultCacheSize)
		if err != nil {
			// lru.New only fails on a non-positive size.
			panic(fmt.Sprintf("validate: default checker: %v", err))
		}
		defaultChecker = c
	})
	return defaultChecker.Check(schemaDoc, data)
}

// Check compiles the schema (through the cache) and validates data.
func (c *Checker) Check(schemaDoc []byte, data any) ([]string, error) {
	compiled, err := c.Compile(schemaDoc)
	if err != nil {
		return nil, err
	}
	return violations(compiled.Validate(data)), nil
}

// violations flattens a validation error into "<instanceLocation>: <message>"
// strings using the draft's basic output format.
func violations(err error) []string {
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	out := ve.BasicOutput()
	if out.Valid {
		return nil
	}
	var list []string
	for _, unit := range out.Errors {
		if unit.Error == "" {
			continue
		}
		loc := unit.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		list = append(list, fmt.Sprintf("%s: %s", loc, unit.Error))
	}
	if len(list) == 0 {
		list = []string{ve.Error()}
	}
	return list
}
