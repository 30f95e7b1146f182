package odmgraph

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned while the schema is being
// assembled and should abort assembly.
var (
	ErrUnknownFieldKind     = errors.New("unknown field kind")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidType          = errors.New("invalid object type")
	ErrRegistryMismatch     = errors.New("registry mismatch")
	ErrDuplicateType        = errors.New("duplicate object type")
	ErrInvalidConnection    = errors.New("invalid connection")
	ErrIncompatibleInstance = errors.New("incompatible instance")
	ErrNoFinder             = errors.New("no finder configured")
	ErrEmptyType            = errors.New("object type has no fields")
	ErrNameCollision        = errors.New("name collision")
)

// Violation describes a field that is missing from the generated schema
// because the model it references was never registered.
type Violation struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Field   string `json:"field"`
	Model   string `json:"model,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		msg += "- " + v.Message + "\n"
	}
	return msg
}

func violationUnresolvedReference(typeName, fieldName, modelName string) *Violation {
	return &Violation{
		Message: fmt.Sprintf("field %q of type %q references model %q which has no registered type", fieldName, typeName, modelName),
		Type:    typeName,
		Field:   fieldName,
		Model:   modelName,
	}
}
