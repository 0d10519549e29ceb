package llmschema

import (
	"fmt"
	"sort"

	"github.com/dotslashderek/json-schema-llm/schema"
)

// openAIMaxDepth is the deepest nesting OpenAI strict mode accepts.
const openAIMaxDepth = 5

// hardVisitLimit stops the pre-flight visitor on pathological trees.
const hardVisitLimit = 100

// passCompat runs read-only pre-flight checks against the finished schema and
// reports advisory warnings: the root must be an object, nesting must fit the
// provider's depth budget, and enum members must be homogeneous. It never
// mutates the schema and never aborts; a usable converted schema is returned
// alongside the findings. Only the strict OpenAI profile has a published
// surface to check; the other profiles pass through.
func passCompat(ctx *passContext) error {
	if ctx.opts.target != TargetOpenAIStrict {
		return nil
	}
	root := ctx.root
	if root.IsBool() || root.Type != "object" {
		actual := root.Type
		if root.IsBool() {
			actual = fmt.Sprintf("boolean(%v)", *root.Boolean)
		} else if actual == "" {
			actual = "unspecified"
		}
		ctx.warns = append(ctx.warns, CompatWarning{
			Path:     schema.RootPointer,
			Message:  fmt.Sprintf("root type %q is not \"object\"; the provider rejects non-object roots", actual),
			Severity: SeverityError,
		})
	}

	v := &compatVisitor{ctx: ctx}
	v.visit(root, schema.RootPointer, 0)
	if v.maxDepthSeen > openAIMaxDepth {
		ctx.warns = append(ctx.warns, CompatWarning{
			Path:     schema.RootPointer,
			Message:  fmt.Sprintf("schema nesting depth %d exceeds the provider limit of %d", v.maxDepthSeen, openAIMaxDepth),
			Severity: SeverityWarning,
		})
	}
	return nil
}

type compatVisitor struct {
	ctx          *passContext
	maxDepthSeen int
}

func (v *compatVisitor) visit(n *schema.Node, path string, depth int) {
	if depth > hardVisitLimit {
		return
	}
	if n.IsBool() {
		// Sub-schema booleans survive only on odd inputs; the provider
		// rejects them.
		v.ctx.warns = append(v.ctx.warns, CompatWarning{
			Path:     path,
			Message:  fmt.Sprintf("boolean schema (%v) is not supported by the provider", *n.Boolean),
			Severity: SeverityError,
		})
		return
	}
	if depth > v.maxDepthSeen {
		v.maxDepthSeen = depth
	}
	if len(n.Enum) > 0 {
		v.checkEnumHomogeneity(n.Enum, path)
	}
	_ = mapChildren(n, path, func(c *schema.Node, p string) (*schema.Node, error) {
		v.visit(c, p, depth+1)
		return c, nil
	})
	// mapChildren skips boolean children; surface those here.
	v.visitBoolChildren(n, path)
}

func (v *compatVisitor) visitBoolChildren(n *schema.Node, path string) {
	if n.Properties == nil {
		return
	}
	for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsBool() {
			v.visit(pair.Value, schema.JoinPointer(path, "properties", pair.Key), 0)
		}
	}
}

func (v *compatVisitor) checkEnumHomogeneity(members []any, path string) {
	types := map[string]bool{}
	for _, m := range members {
		types[jsonTypeName(m)] = true
	}
	if len(types) <= 1 {
		return
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	v.ctx.warns = append(v.ctx.warns, CompatWarning{
		Path:     path,
		Message:  fmt.Sprintf("enum members mix primitive types %v; the provider requires homogeneous enums", names),
		Severity: SeverityError,
	})
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
