package schema

import (
	"bytes"
	"errors"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FromYAML converts the first document of a YAML schema file into JSON bytes
// suitable for Convert. YAML map keys must be strings.
func FromYAML(data []byte) ([]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: empty YAML document")
		}
		return nil, err
	}
	normalized, err := yamlNormalize(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// yamlNormalize rewrites map[any]any values produced by older YAML content
// into JSON-compatible map[string]any.
func yamlNormalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := yamlNormalize(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, errors.New("schema: YAML mapping key is not a string")
			}
			nv, err := yamlNormalize(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			nv, err := yamlNormalize(t[i])
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}
