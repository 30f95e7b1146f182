package odmgraph

import (
	"context"
	"fmt"
	"testing"

	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/schema"
	"github.com/stretchr/testify/require"
)

func str(name string, required bool) *odm.Field {
	return &odm.Field{Name: name, Kind: odm.KindString, Required: required}
}

func ref(name string, target *odm.Model) *odm.Field {
	return &odm.Field{Name: name, Kind: odm.KindReference, Target: target}
}

func listOf(name string, elem *odm.Field) *odm.Field {
	return &odm.Field{Name: name, Kind: odm.KindList, Elem: elem}
}

// personModel is {name: string!, age: int, friends: [Person]}.
func personModel() *odm.Model {
	person := &odm.Model{Name: "Person", Collection: "person"}
	person.Fields = []*odm.Field{
		str("name", true),
		{Name: "age", Kind: odm.KindInt},
		listOf("friends", &odm.Field{Kind: odm.KindReference, Target: person}),
	}
	return person
}

func mustObjectType(t *testing.T, model *odm.Model, opts ...Option) *ObjectType {
	t.Helper()
	ot, err := NewObjectType(model, opts...)
	require.NoError(t, err)
	return ot
}

func fieldTypes(ot *ObjectType) map[string]string {
	out := make(map[string]string)
	for _, f := range ot.Fields() {
		out[f.Name] = f.Type.String()
	}
	return out
}

func fieldNames(fs []*schema.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

type mapFinder map[string]odm.Document

func (m mapFinder) FindByID(ctx context.Context, model *odm.Model, id string) (odm.Document, error) {
	doc, ok := m[id]
	if !ok || doc.DocumentModel() != model {
		return nil, fmt.Errorf("%s %s: %w", model.Name, id, odm.ErrNotFound)
	}
	return doc, nil
}
