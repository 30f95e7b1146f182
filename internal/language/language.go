// Package language loads GraphQL SDL with gqlparser.
package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ValidatedSchema is a schema that passed the GraphQL type system rules.
type ValidatedSchema = ast.Schema

// LoadSchema parses and validates SDL against the GraphQL type system rules,
// with the built-in scalars and directives predeclared.
func LoadSchema(name, source string) (*ValidatedSchema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return s, nil
}
