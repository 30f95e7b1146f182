package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSchema() *Schema {
	user := NewType("User", TypeKindObject, "A registered user").
		AddInterface(NodeInterfaceName).
		AddField(NodeIDField()).
		AddField(NewField("email", "", NonNullType(NamedType(StringTypeName)))).
		AddField(NewField("tags", "", ListType(NamedType(StringTypeName))))
	query := NewType("Query", TypeKindObject, "").
		AddField(NewField("user", "", NamedType("User")).
			AddArgument(NewInputValue("id", "", NonNullType(NamedType(IDTypeName))))).
		AddField(NewField("users", "", ListType(NamedType("User"))).
			AddArgument(NewInputValue("first", "", NamedType(IntTypeName)).SetDefault(10)))

	return NewSchema("").
		SetQueryType("Query").
		AddType(query).
		AddType(user).
		AddType(NodeInterface())
}

func TestRender(t *testing.T) {
	expected := `"""
An object with an ID
"""
interface Node {
  """
  The ID of the object
  """
  id: ID!
}

type Query {
  user(id: ID!): User
  users(first: Int = 10): [User]
}

"""
A registered user
"""
type User implements Node {
  """
  The ID of the object
  """
  id: ID!
  email: String!
  tags: [String]
}
`
	if diff := cmp.Diff(expected, Render(userSchema())); diff != "" {
		t.Errorf("render mismatch (-expected +actual):\n%s", diff)
	}
}

func TestRenderSchemaDefinition(t *testing.T) {
	s := NewSchema("").SetQueryType("Root").
		AddType(NewType("Root", TypeKindObject, "").AddField(NewField("ok", "", NamedType(BooleanTypeName))))
	assert.Equal(t, "schema {\n  query: Root\n}\n\ntype Root {\n  ok: Boolean\n}\n", Render(s))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(userSchema()))

	t.Run("missing query type", func(t *testing.T) {
		err := Validate(NewSchema(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no query type")
	})

	t.Run("undefined type", func(t *testing.T) {
		s := userSchema()
		s.Types["User"].AddField(NewField("address", "", NamedType("Address")))
		err := Validate(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid schema")
		assert.Contains(t, err.Error(), "Address")
	})

	t.Run("interface field missing", func(t *testing.T) {
		s := userSchema()
		s.Types["User"].Fields = s.Types["User"].Fields[1:]
		require.Error(t, Validate(s))
	})
}

func TestConnection(t *testing.T) {
	conn := NewConnection("PostConnection", "Post")
	assert.Equal(t, "PostEdge", conn.EdgeName())
	assert.Equal(t, "PostFeedEdge", NewConnection("PostFeed", "Post").EdgeName())

	types := conn.Types()
	require.Len(t, types, 2)

	fields := func(typ *Type) map[string]string {
		out := make(map[string]string)
		for _, f := range typ.Fields {
			out[f.Name] = f.Type.String()
		}
		return out
	}
	assert.Equal(t, "PostConnection", types[0].Name)
	assert.Equal(t, map[string]string{"pageInfo": "PageInfo!", "edges": "[PostEdge]!"}, fields(types[0]))
	assert.Equal(t, "PostEdge", types[1].Name)
	assert.Equal(t, map[string]string{"node": "Post", "cursor": "String!"}, fields(types[1]))

	post := NewType("Post", TypeKindObject, "").
		AddInterface(NodeInterfaceName).
		AddField(NodeIDField())
	query := NewType("Query", TypeKindObject, "").
		AddField(NewField("posts", "", NamedType(conn.Name)))
	for _, arg := range ConnectionArguments() {
		query.Fields[0].AddArgument(arg)
	}
	s := NewSchema("").SetQueryType("Query").
		AddType(query).AddType(post).AddType(NodeInterface()).AddType(PageInfoType())
	for _, ct := range types {
		s.AddType(ct)
	}
	require.NoError(t, Validate(s))
	assert.Contains(t, Render(s), "posts(before: String, after: String, first: Int, last: Int): PostConnection")
}

func TestTypeRef(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(NamedType("User"))))
	assert.Equal(t, "[User!]!", ref.String())
	assert.True(t, ref.IsList())
	assert.True(t, IsNonNull(ref))
	assert.Equal(t, "[User!]", ref.Nullable().String())
	assert.Equal(t, "User", GetNamedType(ref))
	assert.Same(t, ref.Nullable(), ref.Nullable().Nullable())
	assert.False(t, IsList(nil))
}
