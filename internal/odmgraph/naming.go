package odmgraph

import (
	"strings"
	"unicode"
)

// camelCase converts a snake_case attribute name to a lowerCamelCase GraphQL
// field name. Leading underscores are kept.
func camelCase(s string) string {
	trimmed := strings.TrimLeft(s, "_")
	prefix := s[:len(s)-len(trimmed)]
	parts := strings.Split(trimmed, "_")
	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
