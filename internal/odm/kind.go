package odm

import (
	"fmt"
	"strings"
)

// Kind identifies the storage kind of a document field.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindObjectID
	KindInt
	KindBoolean
	KindDecimal
	KindFloat
	KindJSON
	KindDateTime
	KindList
	KindEmbeddedDocument
	KindReference
)

var kindNames = [...]string{
	KindInvalid:          "invalid",
	KindString:           "string",
	KindObjectID:         "objectid",
	KindInt:              "int",
	KindBoolean:          "boolean",
	KindDecimal:          "decimal",
	KindFloat:            "float",
	KindJSON:             "json",
	KindDateTime:         "datetime",
	KindList:             "list",
	KindEmbeddedDocument: "embedded",
	KindReference:        "reference",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k > KindInvalid && int(k) < len(kindNames) }

// IsRelationship reports whether fields of this kind point at another model.
func (k Kind) IsRelationship() bool {
	return k == KindEmbeddedDocument || k == KindReference
}

// ParseKind maps a kind name as written in model files to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "id":
		return KindObjectID, nil
	case "integer":
		return KindInt, nil
	case "bool":
		return KindBoolean, nil
	case "embeddeddocument":
		return KindEmbeddedDocument, nil
	}
	for k, n := range kindNames {
		if Kind(k) != KindInvalid && n == name {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown field kind %q", s)
}
