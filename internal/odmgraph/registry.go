package odmgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hanpama/odmgraph/internal/eventbus"
	"github.com/hanpama/odmgraph/internal/events"
	"github.com/hanpama/odmgraph/internal/odm"
)

// Registry maps document models to their generated object types.
//
// Registration happens while the schema is assembled; lookups are safe to
// run concurrently once assembly is complete. Object types are not
// themselves safe for concurrent mutation, so a single goroutine should
// drive assembly.
type Registry struct {
	mu     sync.RWMutex
	types  map[*odm.Model]*ObjectType
	order  []*odm.Model
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for resolution warnings.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{types: make(map[*odm.Model]*ObjectType)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register stores t under its model and then resolves fields of every
// registered type that were waiting on a model which is now available.
// Registering the same type again is a no-op apart from the resolution
// pass; registering a different type for an already registered model fails.
func (r *Registry) Register(t *ObjectType) error {
	if t == nil {
		return fmt.Errorf("%w: only object types can be registered", ErrInvalidType)
	}
	if t.registry != r {
		return fmt.Errorf("%w: type %q belongs to another registry", ErrRegistryMismatch, t.name)
	}

	r.mu.Lock()
	existing, ok := r.types[t.model]
	if ok && existing != t {
		r.mu.Unlock()
		return fmt.Errorf("%w: model %s is already registered as %q, cannot register %q",
			ErrDuplicateType, t.model.Name, existing.name, t.name)
	}
	if !ok {
		r.order = append(r.order, t.model)
	}
	r.types[t.model] = t
	r.mu.Unlock()

	eventbus.Publish(context.Background(), events.TypeRegistered{
		Type:   t.name,
		Model:  t.model.Name,
		Fields: len(t.fields),
	})
	return r.resolveAll()
}

// resolveAll rescans every registered type until a full pass adds no field.
func (r *Registry) resolveAll() error {
	for {
		added := 0
		for _, t := range r.Types() {
			n, err := t.Rescan()
			if err != nil {
				return err
			}
			added += n
		}
		if added == 0 {
			return nil
		}
	}
}

// TypeForModel returns the type registered for model, or nil.
func (r *Registry) TypeForModel(model *odm.Model) *ObjectType {
	if r == nil || model == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[model]
}

// Resolve looks up the type a pending reference points at. It returns nil
// while the target model is unregistered and may be called again later.
func (r *Registry) Resolve(ref PendingRef) *ObjectType {
	return r.TypeForModel(ref.Model)
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*ObjectType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ObjectType, 0, len(r.order))
	for _, m := range r.order {
		out = append(out, r.types[m])
	}
	return out
}

// Reset removes every registered type.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[*odm.Model]*ObjectType)
	r.order = nil
}

// Unresolved lists the fields that are still missing from registered types
// because the model they reference has no registered type.
func (r *Registry) Unresolved() []*Violation {
	var out []*Violation
	for _, t := range r.Types() {
		out = append(out, t.unresolved()...)
	}
	return out
}

// Check reports every unresolved reference as a ValidationError. Each one
// is also logged as a warning.
func (r *Registry) Check() error {
	violations := r.Unresolved()
	if len(violations) == 0 {
		return nil
	}
	for _, v := range violations {
		r.logger.Warn("unresolved reference",
			slog.String("type", v.Type),
			slog.String("field", v.Field),
			slog.String("model", v.Model))
	}
	return ValidationError(violations)
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry, creating it on first use.
func DefaultRegistry() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// ResetDefaultRegistry discards the process-wide registry.
func ResetDefaultRegistry() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = nil
}
