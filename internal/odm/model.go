package odm

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidModel = errors.New("odm: invalid document model")
	ErrNotFound     = errors.New("odm: document not found")
)

// Field describes a single field of a document model.
type Field struct {
	Name     string
	DBName   string
	Kind     Kind
	Required bool
	Unique   bool
	// Elem is the element field of a KindList field.
	Elem *Field
	// Target is the model a KindEmbeddedDocument or KindReference field points at.
	Target *Model
}

// DatabaseName returns the name the field is stored under.
func (f *Field) DatabaseName() string {
	if f.DBName != "" {
		return f.DBName
	}
	return f.Name
}

// Model is a document model definition. Its pointer is the model identity.
type Model struct {
	Name       string
	Collection string
	// Embedded models are stored inside other documents and have no
	// collection or primary key of their own.
	Embedded bool
	Extends  *Model
	Fields   []*Field
}

// AllFields returns inherited fields followed by the model's own fields.
// A field redeclared by a subclass replaces the inherited one in place.
func (m *Model) AllFields() []*Field {
	if m.Extends == nil {
		return m.Fields
	}
	inherited := m.Extends.AllFields()
	out := make([]*Field, 0, len(inherited)+len(m.Fields))
	pos := make(map[string]int, len(inherited))
	for _, f := range inherited {
		pos[f.Name] = len(out)
		out = append(out, f)
	}
	for _, f := range m.Fields {
		if i, ok := pos[f.Name]; ok {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return out
}

// Field returns the field named name, or nil.
func (m *Model) Field(name string) *Field {
	for _, f := range m.AllFields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IsSubclassOf reports whether m is other or inherits from it.
func (m *Model) IsSubclassOf(other *Model) bool {
	for cur := m; cur != nil; cur = cur.Extends {
		if cur == other {
			return true
		}
	}
	return false
}

func (m *Model) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.Name
}

// Validate checks that m is a usable document model.
func Validate(m *Model) error {
	if m == nil {
		return fmt.Errorf("%w: model is nil", ErrInvalidModel)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: model has no name", ErrInvalidModel)
	}
	seen := map[*Model]bool{}
	for cur := m; cur != nil; cur = cur.Extends {
		if seen[cur] {
			return fmt.Errorf("%w: inheritance cycle through %s", ErrInvalidModel, cur.Name)
		}
		seen[cur] = true
	}
	for _, f := range m.AllFields() {
		if f == nil {
			return fmt.Errorf("%w: %s has a nil field", ErrInvalidModel, m.Name)
		}
		if f.Name == "" {
			return fmt.Errorf("%w: %s has a field without a name", ErrInvalidModel, m.Name)
		}
		if err := validateField(m.Name+"."+f.Name, f); err != nil {
			return err
		}
	}
	return nil
}

// validateField checks kind specific requirements. List elements are
// usually unnamed, so errors are reported against path.
func validateField(path string, f *Field) error {
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: field %s has unknown kind %s", ErrInvalidModel, path, f.Kind)
	}
	switch {
	case f.Kind == KindList:
		if f.Elem == nil {
			return fmt.Errorf("%w: list field %s has no element", ErrInvalidModel, path)
		}
		return validateField(path+"[]", f.Elem)
	case f.Kind.IsRelationship():
		if f.Target == nil {
			return fmt.Errorf("%w: %s field %s has no target model", ErrInvalidModel, f.Kind, path)
		}
	}
	return nil
}

// Document is a persisted instance of a model.
type Document interface {
	DocumentModel() *Model
	DocumentID() any
}

// Record is a schemaless Document.
type Record struct {
	Model  *Model
	ID     any
	Values map[string]any
}

func (r *Record) DocumentModel() *Model {
	if r == nil {
		return nil
	}
	return r.Model
}

func (r *Record) DocumentID() any {
	if r == nil {
		return nil
	}
	return r.ID
}

// ObjectID is a 12-byte document identifier.
type ObjectID [12]byte

func (id ObjectID) String() string { return hex.EncodeToString(id[:]) }

// ParseObjectID decodes the 24 character hex form of an ObjectID.
func ParseObjectID(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 24 {
		return id, fmt.Errorf("invalid object id %q", s)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("invalid object id %q: %w", s, err)
	}
	return id, nil
}

// Finder loads a single document by primary key.
type Finder interface {
	FindByID(ctx context.Context, model *Model, id string) (Document, error)
}
