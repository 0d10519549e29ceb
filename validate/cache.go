package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultCacheSize bounds the default checker's compiled-schema cache.
const DefaultCacheSize = 128

// Checker compiles original schemas and keeps the compiled form in a bounded
// LRU keyed by content digest, so repeated rehydrations against the same
// schema skip recompilation.
type Checker struct {
	cache *lru.Cache[string, *jsonschema.Schema]
}

// NewChecker builds a checker with room for size compiled schemas.
func NewChecker(size int) (*Checker, error) {
	cache, err := lru.New[string, *jsonschema.Schema](size)
	if err != nil {
		return nil, err
	}
	return &Checker{cache: cache}, nil
}

// Compile returns the compiled form of the schema document, from cache when
// the same bytes were seen before.
func (c *Checker) Compile(schemaDoc []byte) (*jsonschema.Schema, error) {
	sum := sha256.Sum256(schemaDoc)
	key := hex.EncodeToString(sum[:])
	if compiled, ok := c.cache.Get(key); ok {
		return compiled, nil
	}
	compiled, err := jsonschema.CompileString("schema.json", string(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("validate: original schema does not compile: %w", err)
	}
	c.cache.Add(key, compiled)
	return compiled, nil
}
