// Command jsonschema-llm converts JSON Schema documents into provider-ready
// structured-output schemas and rehydrates model output back into the
// original shape.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	llmschema "github.com/dotslashderek/json-schema-llm"
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "convert":
		convertCmd(os.Args[2:])
	case "rehydrate":
		rehydrateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `jsonschema-llm

Usage:
  jsonschema-llm convert -schema schema.json|schema.yaml [-target openai-strict|gemini|claude] [-max-depth N] [-key-field NAME] [-out converted.json] [-codec codec.json]
  jsonschema-llm rehydrate -data output.json -codec codec.json -schema schema.json [-out rehydrated.json]`)
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var schemaPath, target, outPath, codecPath, keyField string
	var maxDepth int
	fs.StringVar(&schemaPath, "schema", "", "input JSON Schema document (.json, .yaml, .yml)")
	fs.StringVar(&target, "target", string(llmschema.TargetOpenAIStrict), "provider profile")
	fs.IntVar(&maxDepth, "max-depth", llmschema.DefaultMaxDepth, "recursion expansion cutoff")
	fs.StringVar(&keyField, "key-field", llmschema.DefaultMapKeyField, "key property name for flattened maps")
	fs.StringVar(&outPath, "out", "", "converted schema output file (default stdout)")
	fs.StringVar(&codecPath, "codec", "", "codec artifact output file (default stdout)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	doc := readSchemaDoc(schemaPath)
	result, err := llmschema.Convert(doc,
		llmschema.WithTarget(llmschema.Target(target)),
		llmschema.WithMaxDepth(maxDepth),
		llmschema.WithMapKeyField(keyField),
	)
	if err != nil {
		fatalf("convert: %v", err)
	}

	for _, w := range result.ProviderCompatErrors {
		fmt.Fprintf(os.Stderr, "compat %s at %s: %s\n", w.Severity, w.Path, w.Message)
	}
	writeJSON(outPath, result.Schema)
	writeJSON(codecPath, result.Codec)
}

func rehydrateCmd(args []string) {
	fs := flag.NewFlagSet("rehydrate", flag.ExitOnError)
	var dataPath, codecPath, schemaPath, outPath string
	fs.StringVar(&dataPath, "data", "", "model output JSON file")
	fs.StringVar(&codecPath, "codec", "", "codec artifact file")
	fs.StringVar(&schemaPath, "schema", "", "original schema document")
	fs.StringVar(&outPath, "out", "", "rehydrated output file (default stdout)")
	_ = fs.Parse(args)
	if dataPath == "" || codecPath == "" || schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	data := readFile(dataPath)
	c, err := codec.Parse(readFile(codecPath))
	if err != nil {
		fatalf("rehydrate: %v", err)
	}
	result, err := llmschema.Rehydrate(data, c, readSchemaDoc(schemaPath))
	if err != nil {
		fatalf("rehydrate: %v", err)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning at %s (%s): %s\n", w.Path, w.TransformType, w.Message)
	}
	for _, v := range result.ValidationErrors {
		fmt.Fprintf(os.Stderr, "validation: %s\n", v)
	}
	writeJSON(outPath, result.Data)
}

func readSchemaDoc(path string) []byte {
	raw := readFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := schema.FromYAML(raw)
		if err != nil {
			fatalf("reading %s: %v", path, err)
		}
		return doc
	default:
		return raw
	}
}

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	return data
}

func writeJSON(path string, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encoding output: %v", err)
	}
	out = append(out, '\n')
	if path == "" {
		_, _ = os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		fatalf("writing %s: %v", path, err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "jsonschema-llm: "+format+"\n", args...)
	os.Exit(1)
}
