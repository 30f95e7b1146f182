package protoexport

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

func nameProtoField(attr string) protoreflect.Name {
	return protoreflect.Name(snakeCase(attr))
}

// snakeCase converts a string from CamelCase or PascalCase to snake_case.
// Existing underscores are kept.
func snakeCase(s string) string {
	var b strings.Builder
	prev := rune(0)
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && prev != '_' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(b.String())
}
