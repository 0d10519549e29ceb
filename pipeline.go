package llmschema

import (
	"github.com/dotslashderek/json-schema-llm/codec"
	"github.com/dotslashderek/json-schema-llm/schema"
)

// passContext is the call-local pipeline state. Nothing here outlives a
// Convert call; the codec is the only artifact handed back to the caller.
type passContext struct {
	opts  options
	root  *schema.Node
	defs  map[string]*schema.Node
	codec *codec.Codec
	warns []CompatWarning
}

type pass struct {
	name string
	skip func(Target) bool
	run  func(*passContext) error
}

func skipForGemini(t Target) bool { return t == TargetGemini }

// pipeline is the fixed, total pass order. No pass observes the output of a
// later one; provider differences live in the skip predicates and the
// constraint matrix, not in scattered branches.
var pipeline = []pass{
	{name: "normalize", run: passNormalize},
	{name: "compose", run: passCompose},
	{name: "polymorph", skip: skipForGemini, run: passPolymorph},
	{name: "dictionary", skip: skipForGemini, run: passDictionary},
	{name: "opaque", run: passOpaque},
	{name: "recursion", skip: skipForGemini, run: passRecursion},
	{name: "strict", run: passStrict},
	{name: "adaptive", run: passAdaptive},
	{name: "constraints", run: passConstraints},
	{name: "compat", run: passCompat},
}

func runPipeline(ctx *passContext) error {
	for _, p := range pipeline {
		if p.skip != nil && p.skip(ctx.opts.target) {
			continue
		}
		if err := p.run(ctx); err != nil {
			return err
		}
	}
	return nil
}
