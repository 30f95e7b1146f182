package schema

import "strings"

const (
	NodeInterfaceName = "Node"
	PageInfoTypeName  = "PageInfo"
)

var nodeInterface = &Type{
	Name:        NodeInterfaceName,
	Kind:        TypeKindInterface,
	Description: "An object with an ID",
	Fields: []*Field{
		{Name: "id", Description: "The ID of the object", Type: NonNullType(NamedType(IDTypeName))},
	},
}

var pageInfoType = &Type{
	Name:        PageInfoTypeName,
	Kind:        TypeKindObject,
	Description: "The Relay compliant `PageInfo` type, containing data necessary to paginate this connection.",
	Fields: []*Field{
		{Name: "hasNextPage", Description: "When paginating forwards, are there more items?", Type: NonNullType(NamedType(BooleanTypeName))},
		{Name: "hasPreviousPage", Description: "When paginating backwards, are there more items?", Type: NonNullType(NamedType(BooleanTypeName))},
		{Name: "startCursor", Description: "When paginating backwards, the cursor to continue.", Type: NamedType(StringTypeName)},
		{Name: "endCursor", Description: "When paginating forwards, the cursor to continue.", Type: NamedType(StringTypeName)},
	},
}

// NodeInterface returns the Relay `Node` interface.
func NodeInterface() *Type { return nodeInterface }

// PageInfoType returns the Relay `PageInfo` object.
func PageInfoType() *Type { return pageInfoType }

// NodeIDField returns the `id: ID!` field every Node implementation carries.
func NodeIDField() *Field {
	return NewField("id", "The ID of the object", NonNullType(NamedType(IDTypeName)))
}

// Connection is a cursor paginated list of NodeType values.
type Connection struct {
	Name     string
	NodeType string
}

// NewConnection creates a connection named name over nodeType.
func NewConnection(name, nodeType string) *Connection {
	return &Connection{Name: name, NodeType: nodeType}
}

// EdgeName is the name of the connection's edge type.
func (c *Connection) EdgeName() string {
	return strings.TrimSuffix(c.Name, "Connection") + "Edge"
}

// Types returns the connection object followed by its edge object.
func (c *Connection) Types() []*Type {
	conn := NewType(c.Name, TypeKindObject, "")
	conn.AddField(NewField("pageInfo", "Pagination data for this connection.", NonNullType(NamedType(PageInfoTypeName))))
	conn.AddField(NewField("edges", "Contains the nodes in this connection.", NonNullType(ListType(NamedType(c.EdgeName())))))

	edge := NewType(c.EdgeName(), TypeKindObject, "A Relay edge containing a `"+c.NodeType+"` and its cursor.")
	edge.AddField(NewField("node", "The item at the end of the edge", NamedType(c.NodeType)))
	edge.AddField(NewField("cursor", "A cursor for use in pagination", NonNullType(NamedType(StringTypeName))))
	return []*Type{conn, edge}
}

// ConnectionArguments returns the pagination arguments of a connection field.
func ConnectionArguments() []*InputValue {
	return []*InputValue{
		NewInputValue("before", "", NamedType(StringTypeName)),
		NewInputValue("after", "", NamedType(StringTypeName)),
		NewInputValue("first", "", NamedType(IntTypeName)),
		NewInputValue("last", "", NamedType(IntTypeName)),
	}
}
