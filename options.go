package llmschema

// Target selects the provider profile a conversion compiles for. The profile
// decides which passes are skipped and which validation keywords survive.
type Target string

const (
	// TargetOpenAIStrict is the default profile: closed objects, every
	// property required, most validation keywords stripped.
	TargetOpenAIStrict Target = "openai-strict"
	// TargetGemini keeps oneOf, map-typed additionalProperties, and recursive
	// references, which the provider supports natively.
	TargetGemini Target = "gemini"
	// TargetClaude behaves like strict mode with a smaller keyword surface.
	TargetClaude Target = "claude"
)

// Defaults applied by Convert when no option overrides them.
const (
	DefaultMaxDepth    = 3
	DefaultMapKeyField = "key"
)

type options struct {
	target      Target
	maxDepth    int
	mapKeyField string
}

// Option adjusts a single Convert call. Option keys are canonical here;
// case-convention translation is the job of per-language bindings.
type Option func(*options)

// WithTarget selects the provider profile.
func WithTarget(t Target) Option {
	return func(o *options) { o.target = t }
}

// WithMaxDepth caps per-branch expansion of cyclic references; beyond the cap
// the subtree is stringified. Zero stringifies at the first occurrence.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithMapKeyField sets the key property name used when a map-like schema is
// rewritten to a {key,value} entry array.
func WithMapKeyField(name string) Option {
	return func(o *options) { o.mapKeyField = name }
}

func newOptions(opts ...Option) (options, error) {
	o := options{
		target:      TargetOpenAIStrict,
		maxDepth:    DefaultMaxDepth,
		mapKeyField: DefaultMapKeyField,
	}
	for _, opt := range opts {
		opt(&o)
	}
	switch o.target {
	case TargetOpenAIStrict, TargetGemini, TargetClaude:
	default:
		return o, errf(CodeInvalidOptions, "", "unknown target %q", o.target)
	}
	if o.maxDepth < 0 {
		return o, errf(CodeInvalidOptions, "", "maxDepth must be >= 0, got %d", o.maxDepth)
	}
	if o.mapKeyField == "" {
		return o, errf(CodeInvalidOptions, "", "mapKeyField must not be empty")
	}
	return o, nil
}
