package odmgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hanpama/odmgraph/internal/eventbus"
	"github.com/hanpama/odmgraph/internal/events"
	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/schema"
)

// Schema composes every registered type, plus the scalars, interfaces and
// connection types they depend on, into a schema rooted at query. Two
// different types claiming one name is an ErrNameCollision.
func (r *Registry) Schema(query *schema.Type) (*schema.Schema, error) {
	s := schema.NewSchema("")
	add := func(t *schema.Type) error {
		if prev, ok := s.Types[t.Name]; ok && prev != t {
			return fmt.Errorf("%w: type %q is defined twice", ErrNameCollision, t.Name)
		}
		s.AddType(t)
		return nil
	}
	if err := add(schema.JSONStringType()); err != nil {
		return nil, err
	}
	if err := add(query); err != nil {
		return nil, err
	}
	s.SetQueryType(query.Name)

	needsNode := query.Field("node") != nil
	for _, t := range r.Types() {
		if err := add(t.Type()); err != nil {
			return nil, err
		}
		if t.IsNode() {
			needsNode = true
		}
	}
	for _, t := range r.Types() {
		conn := t.Connection()
		if conn == nil {
			continue
		}
		for _, ct := range append(conn.Types(), schema.PageInfoType()) {
			if err := add(ct); err != nil {
				return nil, err
			}
		}
	}
	if needsNode {
		if err := add(schema.NodeInterface()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DefaultQuery builds a query root exposing every registered document type:
// a lookup by id and a list, paginated when the type has a connection. A
// `node` field is added when any type implements Node. Two types mapping to
// the same root field is an ErrNameCollision.
func DefaultQuery(r *Registry) (*schema.Type, error) {
	q := schema.NewType("Query", schema.TypeKindObject, "")
	add := func(f *schema.Field) error {
		if q.Field(f.Name) != nil {
			return fmt.Errorf("%w: query field %q is defined twice", ErrNameCollision, f.Name)
		}
		q.AddField(f)
		return nil
	}
	hasNode := false
	for _, t := range r.Types() {
		if t.IsNode() {
			hasNode = true
		}
	}
	if hasNode {
		q.AddField(schema.NewField("node", "Fetches an object given its ID", schema.NamedType(schema.NodeInterfaceName)).
			AddArgument(schema.NewInputValue("id", "The ID of the object", schema.NonNullType(schema.NamedType(schema.IDTypeName)))))
	}
	for _, t := range r.Types() {
		if t.Model().Embedded {
			continue
		}
		name := lowerFirst(t.Name())
		byID := schema.NewField(name, "", schema.NamedType(t.Name())).
			AddArgument(schema.NewInputValue("id", "", schema.NonNullType(schema.NamedType(schema.IDTypeName))))
		if err := add(byID); err != nil {
			return nil, err
		}

		list := schema.NewField(name+"List", "", schema.ListType(schema.NamedType(t.Name())))
		if conn := t.Connection(); conn != nil {
			list.Type = schema.NamedType(conn.Name)
			for _, arg := range schema.ConnectionArguments() {
				list.AddArgument(arg)
			}
		}
		if err := add(list); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// emptyTypes fails when a registered type ended up without fields, which
// GraphQL cannot express.
func emptyTypes(r *Registry) error {
	var names []string
	for _, t := range r.Types() {
		if len(t.fields) == 0 {
			names = append(names, strconv.Quote(t.name))
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: every field was filtered out or references a model with no registered type",
		ErrEmptyType, strings.Join(names, ", "))
}

// AssembleOptions controls Assemble.
type AssembleOptions struct {
	// Source names the model definitions, for events and logs.
	Source string
	// Node makes every non-embedded model implement the Node interface.
	Node bool
	// Strict fails assembly when a reference stays unresolved. Otherwise
	// unresolved fields are logged and left out of the schema.
	Strict bool
	Logger *slog.Logger
}

// Assemble builds and registers an object type for every model, resolves
// references between them and composes the validated schema.
func Assemble(ctx context.Context, reg *Registry, models []*odm.Model, opts AssembleOptions) (s *schema.Schema, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	unresolved := 0
	eventbus.Publish(ctx, events.AssemblyStart{Source: opts.Source, Models: len(models)})
	defer func() {
		eventbus.Publish(ctx, events.AssemblyFinish{
			Source:     opts.Source,
			Types:      len(reg.Types()),
			Unresolved: unresolved,
			Err:        err,
			Duration:   time.Since(start),
		})
	}()

	// Phase 1: build and register every model. Registration rescans all
	// types, so references to models registered later are filled in here.
	for _, m := range models {
		typeOpts := []Option{WithRegistry(reg)}
		if opts.Node && !m.Embedded {
			typeOpts = append(typeOpts, WithInterfaces(schema.NodeInterfaceName))
		}
		if _, err := NewObjectType(m, typeOpts...); err != nil {
			return nil, fmt.Errorf("build %s: %w", m, err)
		}
	}

	// Phase 2: anything still missing references a model that was never
	// registered.
	if err := reg.Check(); err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			unresolved = len(verr)
		}
		if opts.Strict {
			return nil, err
		}
	}

	// Unresolved fields are left out above, which must not leave a type
	// empty.
	if err := emptyTypes(reg); err != nil {
		return nil, err
	}

	query, err := DefaultQuery(reg)
	if err != nil {
		return nil, err
	}
	if s, err = reg.Schema(query); err != nil {
		return nil, err
	}
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	logger.Info("schema assembled",
		slog.String("source", opts.Source),
		slog.Int("types", len(reg.Types())),
		slog.Int("unresolved", unresolved))
	return s, nil
}
