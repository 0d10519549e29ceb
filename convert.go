package llmschema

import (
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// APIVersion tags results so bindings can detect incompatible cores.
const APIVersion = "v1"

// maxSchemaBytes bounds the input document; beyond it pass work on
// adversarial schemas stops being practical.
const maxSchemaBytes = 96 << 10

// ConvertResult is the output of one pipeline run: the provider-ready schema,
// the codec needed to reverse its lossy transforms, and advisory
// compatibility findings.
type ConvertResult struct {
	APIVersion           string          `json:"apiVersion"`
	Schema               *schema.Node    `json:"schema"`
	Codec                *codec.Codec    `json:"codec"`
	ProviderCompatErrors []CompatWarning `json:"providerCompatErrors"`
}

// Convert compiles a JSON Schema document into a schema that the target
// provider's structured-output mode can satisfy. The returned codec is a
// standalone artifact: it may be persisted and used to rehydrate model output
// in a different process.
//
// Conversion is a pure function of its inputs; concurrent calls share no
// state. Failures are fatal and return no partial schema — a half-converted
// schema is unsafe to send to a provider.
func Convert(doc []byte, opts ...Option) (*ConvertResult, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if len(doc) > maxSchemaBytes {
		return nil, errf(CodeSizeExceeded, "", "schema document is %d bytes; the ceiling is %d", len(doc), maxSchemaBytes)
	}
	root, err := schema.Parse(doc)
	if err != nil {
		return nil, errf(CodeInvalidSchema, "", "schema document does not parse: %v", err)
	}

	ctx := &passContext{
		opts:  o,
		root:  root,
		codec: codec.New(),
		warns: []CompatWarning{},
	}
	if err := runPipeline(ctx); err != nil {
		return nil, err
	}
	return &ConvertResult{
		APIVersion:           APIVersion,
		Schema:               ctx.root,
		Codec:                ctx.codec,
		ProviderCompatErrors: ctx.warns,
	}, nil
}
