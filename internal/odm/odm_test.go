package odm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelsByName(models []*odm.Model) map[string]*odm.Model {
	out := make(map[string]*odm.Model, len(models))
	for _, m := range models {
		out[m.Name] = m
	}
	return out
}

func TestLoadFile(t *testing.T) {
	for _, file := range []string{"blog.yaml", "blog.toml"} {
		t.Run(file, func(t *testing.T) {
			models, err := odm.LoadFile(filepath.Join("testdata", file))
			require.NoError(t, err)
			require.Len(t, models, 3)
			assert.Equal(t, "User", models[0].Name)
			assert.Equal(t, "Address", models[1].Name)
			assert.Equal(t, "Post", models[2].Name)

			byName := modelsByName(models)
			user, address, post := byName["User"], byName["Address"], byName["Post"]

			assert.Equal(t, "user", user.Collection)
			assert.Equal(t, "post", post.Collection)
			assert.True(t, address.Embedded)
			assert.Empty(t, address.Collection)

			email := user.Field("email")
			require.NotNil(t, email)
			assert.Equal(t, odm.KindString, email.Kind)
			assert.True(t, email.Required)
			assert.True(t, email.Unique)

			firstName := user.Field("first_name")
			require.NotNil(t, firstName)
			assert.Equal(t, "firstName", firstName.DatabaseName())
			assert.Equal(t, "email", email.DatabaseName())

			friends := user.Field("friends")
			require.NotNil(t, friends)
			assert.Equal(t, odm.KindList, friends.Kind)
			require.NotNil(t, friends.Elem)
			assert.Same(t, user, friends.Elem.Target, "self reference must link to the same identity")

			posts := user.Field("posts")
			require.NotNil(t, posts)
			assert.Same(t, post, posts.Elem.Target, "forward reference must link to a later model")

			assert.Same(t, address, user.Field("address").Target)
			assert.Same(t, user, post.Field("author").Target)

			tags := post.Field("tags")
			require.NotNil(t, tags)
			assert.True(t, tags.Required)
			assert.Equal(t, odm.KindString, tags.Elem.Kind)
			assert.Equal(t, odm.KindJSON, post.Field("meta").Kind)
			assert.Equal(t, odm.KindDateTime, user.Field("joined").Kind)
		})
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	_, err := odm.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model file")
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{
			name: "unknown target",
			yaml: "models:\n  - name: A\n    fields:\n      - {name: b, kind: reference, model: B}\n",
			msg:  `unknown model "B"`,
		},
		{
			name: "duplicate model",
			yaml: "models:\n  - name: A\n  - name: A\n",
			msg:  `duplicate model "A"`,
		},
		{
			name: "unknown kind",
			yaml: "models:\n  - name: A\n    fields:\n      - {name: x, kind: money}\n",
			msg:  `unknown field kind "money"`,
		},
		{
			name: "list without element",
			yaml: "models:\n  - name: A\n    fields:\n      - {name: xs, kind: list}\n",
			msg:  "list field needs an element",
		},
		{
			name: "unknown base",
			yaml: "models:\n  - name: A\n    extends: Base\n",
			msg:  `extends unknown model "Base"`,
		},
		{
			name: "inheritance cycle",
			yaml: "models:\n  - name: A\n    extends: B\n  - name: B\n    extends: A\n",
			msg:  "inheritance cycle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := odm.Decode([]byte(tt.yaml), odm.FormatYAML)
			require.Error(t, err)
			assert.ErrorIs(t, err, odm.ErrInvalidModel)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := odm.Decode([]byte("models:\n  - name: A\n    colection: a\n"), odm.FormatYAML)
	require.Error(t, err)

	_, err = odm.Decode([]byte("[[models]]\nname = \"A\"\ncolection = \"a\"\n"), odm.FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestInheritance(t *testing.T) {
	models, err := odm.Decode([]byte(`
models:
  - name: Animal
    fields:
      - {name: name, kind: string}
      - {name: legs, kind: int}
  - name: Bird
    extends: Animal
    fields:
      - {name: legs, kind: int, required: true}
      - {name: wingspan, kind: float}
`), odm.FormatYAML)
	require.NoError(t, err)
	byName := modelsByName(models)
	animal, bird := byName["Animal"], byName["Bird"]

	fields := bird.AllFields()
	require.Len(t, fields, 3)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, "legs", fields[1].Name)
	assert.True(t, fields[1].Required, "redeclared field replaces the inherited one")
	assert.Equal(t, "wingspan", fields[2].Name)

	assert.True(t, bird.IsSubclassOf(animal))
	assert.True(t, bird.IsSubclassOf(bird))
	assert.False(t, animal.IsSubclassOf(bird))
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, odm.Validate(nil), odm.ErrInvalidModel)
	require.ErrorIs(t, odm.Validate(&odm.Model{}), odm.ErrInvalidModel)

	err := odm.Validate(&odm.Model{Name: "A", Fields: []*odm.Field{{Name: "xs", Kind: odm.KindList}}})
	require.ErrorIs(t, err, odm.ErrInvalidModel)
	assert.Contains(t, err.Error(), "A.xs")

	err = odm.Validate(&odm.Model{Name: "A", Fields: []*odm.Field{
		{Name: "xs", Kind: odm.KindList, Elem: &odm.Field{Kind: odm.KindReference}},
	}})
	require.ErrorIs(t, err, odm.ErrInvalidModel)
	assert.Contains(t, err.Error(), "A.xs[]")

	err = odm.Validate(&odm.Model{Name: "A", Fields: []*odm.Field{{Name: "x", Kind: odm.Kind(42)}}})
	require.ErrorIs(t, err, odm.ErrInvalidModel)

	require.NoError(t, odm.Validate(&odm.Model{Name: "A", Fields: []*odm.Field{{Name: "x", Kind: odm.KindString}}}))
}

func TestParseKind(t *testing.T) {
	for k := odm.KindString; k <= odm.KindReference; k++ {
		parsed, err := odm.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	parsed, err := odm.ParseKind(" ID ")
	require.NoError(t, err)
	assert.Equal(t, odm.KindObjectID, parsed)

	_, err = odm.ParseKind("invalid")
	require.Error(t, err)
	assert.Equal(t, "Kind(42)", odm.Kind(42).String())
}

func TestObjectID(t *testing.T) {
	id, err := odm.ParseObjectID("5f1d7f0e9b1e8a3c4d5e6f70")
	require.NoError(t, err)
	assert.Equal(t, "5f1d7f0e9b1e8a3c4d5e6f70", id.String())

	_, err = odm.ParseObjectID("xyz")
	require.Error(t, err)
	_, err = odm.ParseObjectID("zz1d7f0e9b1e8a3c4d5e6f70")
	require.Error(t, err)
}

func TestNilRecord(t *testing.T) {
	var r *odm.Record
	assert.Nil(t, r.DocumentModel())
	assert.Nil(t, r.DocumentID())

	m := &odm.Model{Name: "Post"}
	r = &odm.Record{Model: m, ID: 7}
	assert.Same(t, m, r.DocumentModel())
	assert.Equal(t, 7, r.DocumentID())
}
