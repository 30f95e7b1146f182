package odmgraph

import (
	"fmt"

	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/schema"
)

// PendingRef points at the object type of a document model which may not
// be registered yet. It is resolved with Registry.Resolve, as often as
// needed, until the target shows up.
type PendingRef struct {
	Model *odm.Model
}

// Converted is the GraphQL shape of one document field.
type Converted struct {
	Type        *schema.TypeRef
	Description string
	Arguments   []*schema.InputValue
	// Ref is set for embedded document and reference fields, whose Type is
	// only known once the target model's type is registered.
	Ref *PendingRef
}

// Convert maps a document field to its GraphQL shape. A nil result with a
// nil error means the field cannot be converted yet because a model it
// depends on has no registered type.
func Convert(field *odm.Field, reg *Registry) (*Converted, error) {
	desc := field.DatabaseName()
	switch field.Kind {
	case odm.KindString, odm.KindDateTime:
		// Date-times are exposed as ISO-8601 strings.
		return scalar(schema.StringTypeName, desc, field.Required), nil
	case odm.KindObjectID:
		return scalar(schema.IDTypeName, desc, field.Required), nil
	case odm.KindInt:
		return scalar(schema.IntTypeName, desc, field.Required), nil
	case odm.KindBoolean:
		// Booleans default to false and are never absent.
		return &Converted{Type: schema.NonNullType(schema.NamedType(schema.BooleanTypeName)), Description: desc}, nil
	case odm.KindDecimal, odm.KindFloat:
		return scalar(schema.FloatTypeName, desc, field.Required), nil
	case odm.KindJSON:
		return scalar(schema.JSONStringTypeName, desc, field.Required), nil
	case odm.KindList:
		return convertList(field, reg)
	case odm.KindEmbeddedDocument, odm.KindReference:
		if field.Target == nil {
			return nil, fmt.Errorf("%w: %s field %q has no target model", ErrInvalidField, field.Kind, field.Name)
		}
		return &Converted{Description: desc, Ref: &PendingRef{Model: field.Target}}, nil
	}
	return nil, fmt.Errorf("%w: don't know how to convert field %q (%s)", ErrUnknownFieldKind, field.Name, field.Kind)
}

func scalar(name, desc string, required bool) *Converted {
	t := schema.NamedType(name)
	if required {
		t = schema.NonNullType(t)
	}
	return &Converted{Type: t, Description: desc}
}

func convertList(field *odm.Field, reg *Registry) (*Converted, error) {
	if field.Elem == nil {
		return nil, fmt.Errorf("%w: list field %q has no element field", ErrInvalidField, field.Name)
	}
	elem, err := Convert(field.Elem, reg)
	if err != nil || elem == nil {
		return nil, err
	}

	var base *schema.TypeRef
	if elem.Ref != nil {
		target := reg.Resolve(*elem.Ref)
		if target == nil {
			return nil, nil
		}
		if conn := target.Connection(); conn != nil && target.IsNode() {
			return &Converted{
				Type:        schema.NamedType(conn.Name),
				Description: field.DatabaseName(),
				Arguments:   schema.ConnectionArguments(),
			}, nil
		}
		base = schema.NamedType(target.Name())
	} else if inner := elem.Type.Nullable(); inner.IsList() {
		base = inner
	} else {
		base = schema.NamedType(elem.Type.GetNamedType())
	}

	t := schema.ListType(base)
	if field.Required {
		t = schema.NonNullType(t)
	}
	return &Converted{Type: t, Description: field.DatabaseName()}, nil
}

// resolved returns the concrete form of c, or nil while a reference it
// carries cannot be resolved.
func (c *Converted) resolved(reg *Registry) *Converted {
	if c.Ref == nil {
		return c
	}
	target := reg.Resolve(*c.Ref)
	if target == nil {
		return nil
	}
	return &Converted{
		Type:        schema.NamedType(target.Name()),
		Description: c.Description,
		Arguments:   c.Arguments,
	}
}

// convertField converts a document field into a named GraphQL field, or
// returns nil when the field has to wait for another model's type.
func convertField(name string, field *odm.Field, reg *Registry) (*schema.Field, error) {
	c, err := Convert(field, reg)
	if err != nil || c == nil {
		return nil, err
	}
	if c = c.resolved(reg); c == nil {
		return nil, nil
	}
	f := schema.NewField(name, c.Description, c.Type)
	for _, arg := range c.Arguments {
		f.AddArgument(arg)
	}
	return f, nil
}
