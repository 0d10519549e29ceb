package llmschema

import "github.com/dotslashderek/json-schema-llm/codec"

// Severity grades a provider-compat finding. Severity "error" means the
// provider is expected to reject the schema outright; "warning" means
// generation quality may degrade.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// CompatWarning is an advisory finding from the provider-compat pass. It
// never aborts a conversion; the converted schema is returned alongside.
type CompatWarning struct {
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// RehydrationWarning records a transform that could not cleanly reverse over
// model output. Rehydration degrades per field and keeps going.
type RehydrationWarning struct {
	Path          string     `json:"path"`
	Message       string     `json:"message"`
	TransformType codec.Kind `json:"transformType"`
}
