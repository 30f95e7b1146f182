package schema

import (
	"fmt"

	"github.com/hanpama/odmgraph/internal/language"
)

// Validate renders s and loads the SDL with a spec compliant GraphQL schema
// loader, returning the first problem found.
func Validate(s *Schema) error {
	if s.GetQueryType() == nil {
		return fmt.Errorf("schema has no query type %q", s.QueryType)
	}
	if _, err := language.LoadSchema("schema.graphql", Render(s)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}
