package engine

import (
	"context"

	json "github.com/goccy/go-json"

	llmschema "github.com/dotslashderek/json-schema-llm"
)

// Result is the outcome of one roundtrip: rehydrated data matching the
// original schema's shape, the raw provider response for audit, and the
// warnings and validation verdict from rehydration.
type Result struct {
	Data             any
	RawResponse      []byte
	Warnings         []llmschema.RehydrationWarning
	ValidationErrors []string
}

// IsValid reports whether the rehydrated data passes original-schema
// validation.
func (r *Result) IsValid() bool { return len(r.ValidationErrors) == 0 }

// Engine binds a formatter, a transport, and provider configuration into a
// reusable generator. Engines are stateless between calls and safe for
// concurrent use when their formatter and transport are.
type Engine struct {
	formatter   Formatter
	transport   Transport
	cfg         ProviderConfig
	convertOpts []llmschema.Option
}

// New builds an engine. Convert options (target profile, recursion depth,
// map key field) apply to every Generate call.
func New(f Formatter, t Transport, cfg ProviderConfig, opts ...llmschema.Option) *Engine {
	return &Engine{formatter: f, transport: t, cfg: cfg, convertOpts: opts}
}

// Generate runs the full sequence against the given prompt and original
// schema document. The codec never leaves this call: a failed transport or
// extraction aborts before rehydration, so no partial state survives.
func (e *Engine) Generate(ctx context.Context, prompt string, schemaDoc []byte) (*Result, error) {
	converted, err := llmschema.Convert(schemaDoc, e.convertOpts...)
	if err != nil {
		return nil, err
	}
	providerSchema, err := json.Marshal(converted.Schema)
	if err != nil {
		return nil, err
	}

	req, err := e.formatter.Format(prompt, providerSchema, e.cfg)
	if err != nil {
		return nil, err
	}
	raw, err := e.transport.Execute(ctx, req)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Cause: err}
	}
	content, err := e.formatter.ExtractContent(raw)
	if err != nil {
		return nil, &ResponseParseError{Cause: err}
	}

	rehydrated, err := llmschema.Rehydrate([]byte(content), converted.Codec, schemaDoc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:             rehydrated.Data,
		RawResponse:      raw,
		Warnings:         rehydrated.Warnings,
		ValidationErrors: rehydrated.ValidationErrors,
	}, nil
}
