// Package protoexport renders document models as proto3 message definitions.
package protoexport

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

var ErrUnsupportedField = errors.New("field cannot be expressed in proto3")

// Build converts models into a single proto3 file in package pkg. Every
// model becomes a message; relationships become message fields and must
// point at one of the given models.
func Build(models []*odm.Model, pkg string) (protoreflect.FileDescriptor, error) {
	if pkg == "" {
		return nil, fmt.Errorf("proto package is required")
	}
	b := &builder{
		file:     protobuilder.NewFile(path.Join(append(strings.Split(pkg, "."), "models.proto")...)),
		messages: make(map[*odm.Model]*protobuilder.MessageBuilder, len(models)),
	}
	b.file.SetPackageName(protoreflect.FullName(pkg))
	b.file.SetSyntax(protoreflect.Proto3)

	// Pass 1: one message per model, so fields can refer to any of them
	for _, m := range models {
		if err := odm.Validate(m); err != nil {
			return nil, err
		}
		b.addMessage(m)
	}

	// Pass 2: fields
	for _, m := range models {
		if err := b.addMessageFields(m); err != nil {
			return nil, err
		}
	}
	return b.file.Build()
}

type builder struct {
	file     *protobuilder.FileBuilder
	messages map[*odm.Model]*protobuilder.MessageBuilder
}

func (b *builder) addMessage(m *odm.Model) {
	mb := protobuilder.NewMessage(protoreflect.Name(m.Name))
	if m.Collection != "" {
		mb.SetComments(comment("Stored in the " + m.Collection + " collection."))
	} else if m.Embedded {
		mb.SetComments(comment("Embedded document."))
	}
	b.messages[m] = mb
	b.file.AddMessage(mb)
}

func (b *builder) addMessageFields(m *odm.Model) error {
	mb := b.messages[m]
	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(m.AllFields()))
	for _, f := range m.AllFields() {
		ft, repeated, err := b.fieldType(f)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", m.Name, f.Name, err)
		}
		fb := protobuilder.NewField(nameProtoField(f.Name), ft)
		if f.DBName != "" && f.DBName != f.Name {
			fb.SetComments(comment("Stored as " + f.DBName + "."))
		}
		switch {
		case repeated:
			fb.SetRepeated()
		case !f.Required && f.Kind != odm.KindBoolean:
			fb.SetOptional()
		}
		mb.AddField(fb)
		fieldBuilders = append(fieldBuilders, fb)
	}
	allocateFieldNumbers(fieldBuilders)
	return nil
}

// fieldType maps a document field to a proto field type. Lists report
// repeated and use their element's type.
func (b *builder) fieldType(f *odm.Field) (*protobuilder.FieldType, bool, error) {
	switch f.Kind {
	case odm.KindString, odm.KindObjectID, odm.KindDateTime, odm.KindDecimal, odm.KindJSON:
		return protobuilder.FieldTypeScalar(protoreflect.StringKind), false, nil
	case odm.KindInt:
		return protobuilder.FieldTypeScalar(protoreflect.Int64Kind), false, nil
	case odm.KindBoolean:
		return protobuilder.FieldTypeScalar(protoreflect.BoolKind), false, nil
	case odm.KindFloat:
		return protobuilder.FieldTypeScalar(protoreflect.DoubleKind), false, nil
	case odm.KindEmbeddedDocument, odm.KindReference:
		mb, ok := b.messages[f.Target]
		if !ok {
			return nil, false, fmt.Errorf("%w: model %s is not exported", ErrUnsupportedField, f.Target)
		}
		return protobuilder.FieldTypeMessage(mb), false, nil
	case odm.KindList:
		if f.Elem.Kind == odm.KindList {
			return nil, false, fmt.Errorf("%w: nested lists", ErrUnsupportedField)
		}
		ft, _, err := b.fieldType(f.Elem)
		return ft, true, err
	}
	return nil, false, fmt.Errorf("%w: unknown kind %s", ErrUnsupportedField, f.Kind)
}

// comment turns text into a leading proto comment, one line per line of text.
func comment(text string) protobuilder.Comments {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = " " + line
	}
	return protobuilder.Comments{LeadingComment: strings.Join(lines, "\n") + "\n"}
}
