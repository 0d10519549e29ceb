package llmschema

import "fmt"

// Error codes (exported consts so bindings can map to typed exceptions).
const (
	// CodeInvalidOptions marks unusable conversion options.
	CodeInvalidOptions = "invalid_options"
	// CodeInvalidSchema marks a structurally invalid input schema.
	CodeInvalidSchema = "invalid_schema"
	// CodeUnresolvedRef marks a $ref whose target does not exist.
	CodeUnresolvedRef = "unresolved_ref"
	// CodeDepthExceeded marks a schema nested beyond the traversal ceiling.
	CodeDepthExceeded = "depth_exceeded"
	// CodeSizeExceeded marks an input document over the size ceiling.
	CodeSizeExceeded = "size_exceeded"
	// CodeMalformedOutput marks model output that is not parseable JSON.
	CodeMalformedOutput = "malformed_output"
)

// Error is the structured failure shape surfaced at every boundary:
// a code for programmatic handling, a human message, and the JSON Pointer
// of the offending node when one exists.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errf(code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
