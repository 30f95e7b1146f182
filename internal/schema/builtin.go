package schema

const (
	StringTypeName     = "String"
	IntTypeName        = "Int"
	FloatTypeName      = "Float"
	BooleanTypeName    = "Boolean"
	IDTypeName         = "ID"
	JSONStringTypeName = "JSONString"
)

var stringType = &Type{
	Name:        StringTypeName,
	Kind:        TypeKindScalar,
	Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
}

var intType = &Type{
	Name:        IntTypeName,
	Kind:        TypeKindScalar,
	Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
}

var floatType = &Type{
	Name:        FloatTypeName,
	Kind:        TypeKindScalar,
	Description: "The `Float` scalar type represents signed double-precision fractional values.",
}

var booleanType = &Type{
	Name:        BooleanTypeName,
	Kind:        TypeKindScalar,
	Description: "The `Boolean` scalar type represents `true` or `false`.",
}

var idType = &Type{
	Name:        IDTypeName,
	Kind:        TypeKindScalar,
	Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
}

var jsonStringType = &Type{
	Name:        JSONStringTypeName,
	Kind:        TypeKindScalar,
	Description: "Allows use of a JSON String for input / output from the GraphQL schema.",
}

// JSONStringType returns the scalar used for free-form JSON document fields.
func JSONStringType() *Type { return jsonStringType }

// IsBuiltin reports whether name is one of the scalars every GraphQL
// implementation predeclares.
func IsBuiltin(name string) bool {
	switch name {
	case StringTypeName, IntTypeName, FloatTypeName, BooleanTypeName, IDTypeName:
		return true
	}
	return false
}
