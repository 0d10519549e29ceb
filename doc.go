// Package llmschema converts JSON Schema documents into schemas that LLM
// structured-output modes can reliably satisfy, and reverses the conversion
// over model output.
//
// JSON Schema is built for validation and is permissive; structured
// generation needs a restrictive, closed, fully-specified contract. Convert
// bridges the gap with a fixed sequence of ten passes (reference resolution,
// allOf merging, oneOf rewriting, map flattening, opaque collapsing,
// recursion cutoff, strict sealing, adaptive stringification, constraint
// pruning, and provider pre-flight checks). Every lossy or structural
// transform is recorded in a versioned codec sidecar; Rehydrate replays the
// codec in reverse to reconstruct data in the original schema's shape and
// validates it against the original schema.
//
//	result, err := llmschema.Convert(schemaDoc, llmschema.WithTarget(llmschema.TargetOpenAIStrict))
//	// ... send result.Schema to the provider, keep result.Codec ...
//	out, err := llmschema.Rehydrate(modelOutput, result.Codec, schemaDoc)
package llmschema
