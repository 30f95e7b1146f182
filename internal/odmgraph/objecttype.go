package odmgraph

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/hanpama/odmgraph/internal/eventbus"
	"github.com/hanpama/odmgraph/internal/events"
	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/schema"
)

// ObjectType is the GraphQL object type generated for a document model.
type ObjectType struct {
	name          string
	description   string
	model         *odm.Model
	registry      *Registry
	interfaces    []string
	connection    *schema.Connection
	finder        odm.Finder
	onlyFields    map[string]bool
	excludeFields map[string]bool

	fields []*schema.Field
	// order ranks GraphQL field names by model declaration order.
	order          map[string]int
	selfReferenced []*odm.Field
}

// NewObjectType builds the object type for model and, unless SkipRegistry
// is given, registers it.
//
// Fields referencing models without a registered type are left out and are
// added by a later rescan once the target registers. Lists of the model
// itself are added in a second pass after registration.
func NewObjectType(model *odm.Model, opts ...Option) (*ObjectType, error) {
	if err := odm.Validate(model); err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	if o.name == "" {
		o.name = model.Name
	}

	t := &ObjectType{
		name:          o.name,
		description:   o.description,
		model:         model,
		registry:      o.registry,
		interfaces:    append([]string(nil), o.interfaces...),
		finder:        o.finder,
		onlyFields:    toSet(o.onlyFields),
		excludeFields: toSet(o.excludeFields),
		order:         make(map[string]int),
	}
	for i, f := range model.AllFields() {
		t.order[camelCase(f.Name)] = i
	}
	seen := make(map[string]string)
	for _, f := range t.selectedFields() {
		name := camelCase(f.Name)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: attributes %q and %q of %s both map to field %q",
				ErrInvalidField, prev, f.Name, model.Name, name)
		}
		seen[name] = f.Name
	}

	useConnection := t.IsNode()
	if o.useConnection != nil {
		useConnection = *o.useConnection
	}
	if useConnection && o.connection == nil {
		o.connection = schema.NewConnection(t.name+"Connection", t.name)
	}
	if o.connection != nil && o.connection.NodeType != t.name {
		return nil, fmt.Errorf("%w: connection %q has node type %q, expected %q",
			ErrInvalidConnection, o.connection.Name, o.connection.NodeType, t.name)
	}
	t.connection = o.connection

	if t.IsNode() {
		// The Node id leads and shadows any model attribute named id.
		t.order["id"] = -1
		t.fields = append(t.fields, schema.NodeIDField())
	}

	converted, selfReferenced, err := t.constructFields()
	if err != nil {
		return nil, err
	}
	t.merge(converted)
	t.selfReferenced = selfReferenced

	if o.skipRegistry {
		return t, nil
	}
	if err := t.registry.Register(t); err != nil {
		return nil, err
	}

	added := 0
	for _, f := range t.selfReferenced {
		sf, err := convertField(camelCase(f.Name), f, t.registry)
		if err != nil {
			return nil, err
		}
		if sf != nil && t.merge([]*schema.Field{sf}) > 0 {
			added++
		}
	}
	if added > 0 {
		if err := t.registry.Register(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// constructFields converts the model's selected fields. Lists of the model
// itself are returned separately, unconverted.
func (t *ObjectType) constructFields() ([]*schema.Field, []*odm.Field, error) {
	var fields []*schema.Field
	var selfReferenced []*odm.Field
	for _, f := range t.selectedFields() {
		if t.isSelfReferencingList(f) {
			selfReferenced = append(selfReferenced, f)
			continue
		}
		sf, err := convertField(camelCase(f.Name), f, t.registry)
		if err != nil {
			return nil, nil, fmt.Errorf("type %q: %w", t.name, err)
		}
		if sf == nil {
			continue
		}
		fields = append(fields, sf)
	}
	return fields, selfReferenced, nil
}

func (t *ObjectType) selectedFields() []*odm.Field {
	var out []*odm.Field
	for _, f := range t.model.AllFields() {
		if len(t.onlyFields) > 0 && !t.onlyFields[f.Name] {
			continue
		}
		if t.excludeFields[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (t *ObjectType) isSelfReferencingList(f *odm.Field) bool {
	return f.Kind == odm.KindList && f.Elem != nil &&
		f.Elem.Kind.IsRelationship() && f.Elem.Target == t.model
}

// merge adds fields whose names are not taken yet and returns how many were
// added. The first successful conversion of a field wins.
func (t *ObjectType) merge(fields []*schema.Field) int {
	added := 0
	for _, f := range fields {
		if t.Field(f.Name) != nil {
			continue
		}
		t.fields = append(t.fields, f)
		added++
	}
	if added > 0 {
		sort.SliceStable(t.fields, func(i, j int) bool {
			return t.rank(t.fields[i].Name) < t.rank(t.fields[j].Name)
		})
	}
	return added
}

// rank puts fields that are not model attributes, such as the Node id,
// ahead of the model's own fields.
func (t *ObjectType) rank(name string) int {
	if i, ok := t.order[name]; ok {
		return i
	}
	return -1
}

// Rescan converts the model's fields again and adds those that could not be
// converted before. Existing fields are never replaced and self-referencing
// lists are left to the second pass of NewObjectType.
func (t *ObjectType) Rescan() (int, error) {
	converted, _, err := t.constructFields()
	if err != nil {
		return 0, err
	}
	before := make(map[string]bool, len(t.fields))
	for _, f := range t.fields {
		before[f.Name] = true
	}
	added := t.merge(converted)
	if added > 0 {
		names := make([]string, 0, added)
		for _, f := range t.fields {
			if !before[f.Name] {
				names = append(names, f.Name)
			}
		}
		eventbus.Publish(context.Background(), events.FieldsResolved{Type: t.name, Fields: names})
	}
	return added, nil
}

// unresolved reports selected fields still absent from the type.
func (t *ObjectType) unresolved() []*Violation {
	var out []*Violation
	for _, f := range t.selectedFields() {
		name := camelCase(f.Name)
		if t.Field(name) != nil {
			continue
		}
		target := f.Target
		if f.Kind == odm.KindList && f.Elem != nil {
			target = f.Elem.Target
		}
		if target == nil || t.registry.TypeForModel(target) != nil {
			continue
		}
		out = append(out, violationUnresolvedReference(t.name, name, target.Name))
	}
	return out
}

func (t *ObjectType) Name() string { return t.name }
func (t *ObjectType) Description() string { return t.description }
func (t *ObjectType) Model() *odm.Model { return t.model }
func (t *ObjectType) Registry() *Registry { return t.registry }
func (t *ObjectType) Interfaces() []string { return append([]string(nil), t.interfaces...) }
func (t *ObjectType) Connection() *schema.Connection { return t.connection }

// IsNode reports whether the type implements the Node interface.
func (t *ObjectType) IsNode() bool {
	for _, iface := range t.interfaces {
		if iface == schema.NodeInterfaceName {
			return true
		}
	}
	return false
}

// Fields returns the type's current fields.
func (t *ObjectType) Fields() []*schema.Field {
	return append([]*schema.Field(nil), t.fields...)
}

// Field returns the field named name, or nil.
func (t *ObjectType) Field(name string) *schema.Field {
	for _, f := range t.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Type returns a snapshot of the type for schema composition.
func (t *ObjectType) Type() *schema.Type {
	st := schema.NewType(t.name, schema.TypeKindObject, t.description)
	for _, iface := range t.interfaces {
		st.AddInterface(iface)
	}
	for _, f := range t.fields {
		st.AddField(f)
	}
	return st
}

// IsTypeOf reports whether value is a document of this type's model or of a
// model inheriting from it. Values that are not documents are an error.
func (t *ObjectType) IsTypeOf(value any) (bool, error) {
	doc, ok := asDocument(value)
	if !ok {
		return false, fmt.Errorf("%w: received %T", ErrIncompatibleInstance, value)
	}
	m := doc.DocumentModel()
	if m == nil {
		return false, fmt.Errorf("%w: document %T has no model", ErrIncompatibleInstance, value)
	}
	return m.IsSubclassOf(t.model), nil
}

// GetNode loads the document with the given primary key.
func (t *ObjectType) GetNode(ctx context.Context, id string) (odm.Document, error) {
	if t.finder == nil {
		return nil, fmt.Errorf("%w: type %q cannot load nodes", ErrNoFinder, t.name)
	}
	return t.finder.FindByID(ctx, t.model, id)
}

// ResolveID returns the string form of doc's primary key.
func (t *ObjectType) ResolveID(doc odm.Document) (string, error) {
	if _, ok := asDocument(doc); !ok {
		return "", fmt.Errorf("%w: nil document", ErrIncompatibleInstance)
	}
	id := doc.DocumentID()
	if id == nil {
		return "", fmt.Errorf("%w: %s document has no identity", ErrIncompatibleInstance, t.model.Name)
	}
	return fmt.Sprint(id), nil
}

// asDocument unwraps value as a document. A nil pointer behind the
// interface is not a document.
func asDocument(value any) (odm.Document, bool) {
	doc, ok := value.(odm.Document)
	if !ok || doc == nil {
		return nil, false
	}
	if v := reflect.ValueOf(doc); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, false
	}
	return doc, true
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
