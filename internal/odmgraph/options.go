package odmgraph

import (
	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/schema"
)

type options struct {
	name          string
	description   string
	registry      *Registry
	skipRegistry  bool
	onlyFields    []string
	excludeFields []string
	interfaces    []string
	useConnection *bool
	connection    *schema.Connection
	finder        odm.Finder
}

// Option configures NewObjectType.
type Option func(*options)

// WithName overrides the GraphQL type name. It defaults to the model name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithDescription(description string) Option {
	return func(o *options) { o.description = description }
}

// WithRegistry registers the type in r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// SkipRegistry builds the type without registering it. Self-referencing
// list fields are never added to such a type.
func SkipRegistry() Option {
	return func(o *options) { o.skipRegistry = true }
}

// OnlyFields restricts the type to the named model attributes.
func OnlyFields(names ...string) Option {
	return func(o *options) { o.onlyFields = append(o.onlyFields, names...) }
}

// ExcludeFields drops the named model attributes.
func ExcludeFields(names ...string) Option {
	return func(o *options) { o.excludeFields = append(o.excludeFields, names...) }
}

// WithInterfaces declares the interfaces the type implements. Implementing
// schema.NodeInterfaceName turns on connections unless UseConnection(false)
// is given.
func WithInterfaces(names ...string) Option {
	return func(o *options) { o.interfaces = append(o.interfaces, names...) }
}

// UseConnection forces connection generation on or off.
func UseConnection(use bool) Option {
	return func(o *options) { o.useConnection = &use }
}

// WithConnection supplies the connection used when lists of this type are
// paginated. Its node type must be this type.
func WithConnection(c *schema.Connection) Option {
	return func(o *options) { o.connection = c }
}

// WithFinder sets the persistence accessor used by GetNode.
func WithFinder(f odm.Finder) Option {
	return func(o *options) { o.finder = f }
}
