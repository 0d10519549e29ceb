// Package engine sequences a full structured-output roundtrip:
// convert → format → transport → extract → rehydrate. Provider-specific
// request shapes and the network itself live behind the Formatter and
// Transport interfaces; this package only consumes them.
package engine

import (
	"context"
	"fmt"
)

// ProviderConfig carries endpoint and model selection for a formatter.
type ProviderConfig struct {
	Endpoint string
	Model    string
	APIKey   string
	// Headers are merged into every formatted request.
	Headers map[string]string
}

// Request is a formatted provider call, ready for a Transport.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Formatter builds provider-specific requests and extracts generated content
// from raw responses. Each provider has its own request/response JSON shape.
type Formatter interface {
	// Format wraps a prompt and a provider-ready schema into a request.
	Format(prompt string, providerSchema []byte, cfg ProviderConfig) (Request, error)
	// ExtractContent pulls the generated JSON content out of a raw response.
	ExtractContent(raw []byte) (string, error)
}

// Transport executes a formatted request. Implementations own retries,
// timeouts, and authentication transport details; the engine only requires
// that a failed call returns an error without leaving partial state behind.
type Transport interface {
	Execute(ctx context.Context, req Request) ([]byte, error)
}

// TransportError wraps a transport failure with the provider endpoint for
// context.
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport call to %s failed: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ResponseParseError marks a response the formatter could not extract
// content from.
type ResponseParseError struct {
	Cause error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("failed to extract content from provider response: %v", e.Cause)
}

func (e *ResponseParseError) Unwrap() error { return e.Cause }
