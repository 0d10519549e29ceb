package schema

import (
	"fmt"
	"strings"
)

// RootPointer addresses the document root. Every path the pipeline records is
// a "#"-rooted JSON Pointer such as "#/properties/user/items".
const RootPointer = "#"

// EscapeToken escapes a JSON Pointer reference token per RFC 6901.
func EscapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// JoinPointer appends reference tokens to a "#"-rooted pointer.
func JoinPointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(tok))
	}
	return b.String()
}

// SplitPointer breaks a "#"-rooted pointer into unescaped reference tokens.
// The root pointer yields an empty token list.
func SplitPointer(p string) ([]string, error) {
	if p == RootPointer {
		return nil, nil
	}
	if !strings.HasPrefix(p, RootPointer+"/") {
		return nil, fmt.Errorf("schema: pointer %q is not rooted at %q", p, RootPointer)
	}
	parts := strings.Split(p[len(RootPointer)+1:], "/")
	tokens := make([]string, len(parts))
	for i, part := range parts {
		tokens[i] = UnescapeToken(part)
	}
	return tokens, nil
}
