package llmschema

import (
	"fmt"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
	"github.com/dotslashderek/json-schema-llm/validate"
)

// RehydrateResult carries the reconstructed data, per-field reversal
// warnings, and the original-schema validation verdict. Validation failure is
// data, not an error: the caller decides whether to retry generation.
type RehydrateResult struct {
	APIVersion       string               `json:"apiVersion"`
	Data             any                  `json:"data"`
	Warnings         []RehydrationWarning `json:"warnings"`
	ValidationErrors []string             `json:"validationErrors"`
}

// IsValid reports whether the rehydrated data satisfies the original schema.
func (r *RehydrateResult) IsValid() bool { return len(r.ValidationErrors) == 0 }

// Rehydrate reverses the codec's transforms over model output and validates
// the result against the original (pre-conversion) schema. Model output is
// inherently unreliable, so reversal degrades gracefully: anything a
// transform cannot cleanly undo becomes a warning and a best-effort value.
// The only fatal case is output that is not JSON at all.
func Rehydrate(output []byte, c *codec.Codec, originalSchema []byte) (*RehydrateResult, error) {
	var data any
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, errf(CodeMalformedOutput, "", "model output is not parseable JSON: %v", err)
	}
	return RehydrateValue(data, c, originalSchema)
}

// RehydrateValue is Rehydrate for already-parsed output.
func RehydrateValue(data any, c *codec.Codec, originalSchema []byte) (*RehydrateResult, error) {
	data, warnings := applyCodec(data, c)
	verrs, err := validate.Against(originalSchema, data)
	if err != nil {
		return nil, errf(CodeInvalidSchema, "", "original schema does not compile: %v", err)
	}
	if verrs == nil {
		verrs = []string{}
	}
	return &RehydrateResult{
		APIVersion:       APIVersion,
		Data:             data,
		Warnings:         warnings,
		ValidationErrors: verrs,
	}, nil
}

// applyCodec replays transforms in the reverse of pass-execution order:
// structurally-outer transforms recorded by later passes are undone before
// the inner ones they may have re-encoded. Dropped-constraint records carry
// no data action.
func applyCodec(data any, c *codec.Codec) (any, []RehydrationWarning) {
	warnings := []RehydrationWarning{}
	if c == nil {
		return data, warnings
	}
	for i := len(c.Transforms) - 1; i >= 0; i-- {
		t := c.Transforms[i]
		tokens, err := schema.SplitPointer(t.Path)
		if err != nil || containsDefs(tokens) {
			// Paths into retained definitions have no data correspondence.
			continue
		}
		data = applyAt(data, tokens, t, &warnings)
	}
	return data, warnings
}

func containsDefs(tokens []string) bool {
	for _, tok := range tokens {
		if tok == "$defs" || tok == "definitions" {
			return true
		}
	}
	return false
}

// applyAt walks data along the schema-pointer tokens by structural
// correspondence, then reverses the transform at every located value.
// Locations the output simply doesn't contain are skipped without complaint:
// the model may have taken another union branch or omitted an optional value.
func applyAt(v any, tokens []string, t codec.Transform, warnings *[]RehydrationWarning) any {
	if len(tokens) == 0 {
		return reverseTransform(v, t, warnings)
	}
	switch tokens[0] {
	case "properties":
		if len(tokens) < 2 {
			return v
		}
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		key := tokens[1]
		if len(tokens) == 2 && t.Type == codec.KindNullableOptional {
			// Deleting a key is the parent's job; handle it here.
			if inner, present := m[key]; present && inner == nil {
				delete(m, key)
			}
			return m
		}
		if inner, present := m[key]; present {
			m[key] = applyAt(inner, tokens[2:], t, warnings)
		}
		return m
	case "items":
		arr, ok := v.([]any)
		if !ok {
			return v
		}
		for i := range arr {
			arr[i] = applyAt(arr[i], tokens[1:], t, warnings)
		}
		return arr
	case "prefixItems":
		if len(tokens) < 2 {
			return v
		}
		arr, ok := v.([]any)
		if !ok {
			return v
		}
		idx, err := strconv.Atoi(tokens[1])
		if err != nil || idx < 0 || idx >= len(arr) {
			return v
		}
		arr[idx] = applyAt(arr[idx], tokens[2:], t, warnings)
		return arr
	case "additionalProperties":
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m[k] = applyAt(m[k], tokens[1:], t, warnings)
		}
		return m
	case "anyOf", "oneOf", "allOf":
		// Union branches occupy the same data location.
		if len(tokens) < 2 {
			return v
		}
		return applyAt(v, tokens[2:], t, warnings)
	default:
		return v
	}
}

func reverseTransform(v any, t codec.Transform, warnings *[]RehydrationWarning) any {
	switch t.Type {
	case codec.KindMapToArray:
		return reverseMapToArray(v, t, warnings)
	case codec.KindJSONStringParse, codec.KindRecursiveInflate:
		return reverseStringParse(v, t, warnings)
	case codec.KindNullableOptional:
		// Root-level nullables have no parent key to delete; leave as-is.
		return v
	default:
		return v
	}
}

func reverseMapToArray(v any, t codec.Transform, warnings *[]RehydrationWarning) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	keyField := t.KeyField
	if keyField == "" {
		keyField = DefaultMapKeyField
	}
	out := make(map[string]any, len(arr))
	for i, entry := range arr {
		m, ok := entry.(map[string]any)
		if !ok {
			*warnings = append(*warnings, RehydrationWarning{
				Path:          t.Path,
				Message:       fmt.Sprintf("map entry %d is not an object; skipped", i),
				TransformType: t.Type,
			})
			continue
		}
		rawKey, present := m[keyField]
		if !present {
			*warnings = append(*warnings, RehydrationWarning{
				Path:          t.Path,
				Message:       fmt.Sprintf("map entry %d has no %q field; skipped", i, keyField),
				TransformType: t.Type,
			})
			continue
		}
		key, ok := rawKey.(string)
		if !ok {
			key = fmt.Sprint(rawKey)
			*warnings = append(*warnings, RehydrationWarning{
				Path:          t.Path,
				Message:       fmt.Sprintf("map entry %d key is not a string; coerced to %q", i, key),
				TransformType: t.Type,
			})
		}
		if _, dup := out[key]; dup {
			*warnings = append(*warnings, RehydrationWarning{
				Path:          t.Path,
				Message:       fmt.Sprintf("duplicate map key %q; last entry wins", key),
				TransformType: t.Type,
			})
		}
		out[key] = m[mapValueField]
	}
	return out
}

func reverseStringParse(v any, t codec.Transform, warnings *[]RehydrationWarning) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		msg := fmt.Sprintf("value is not parseable JSON; kept as raw string: %v", err)
		if t.Type == codec.KindRecursiveInflate && t.Ref != "" {
			msg = fmt.Sprintf("inflated %s content is not parseable JSON; kept as raw string: %v", t.Ref, err)
		}
		*warnings = append(*warnings, RehydrationWarning{
			Path:          t.Path,
			Message:       msg,
			TransformType: t.Type,
		})
		return v
	}
	return parsed
}
