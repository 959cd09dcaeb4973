package contracts

import (
	"fmt"
	"reflect"
	"sync"
)

// ConnectionNamer supplies an explicit serialized name for a connection
// value. Connection types that do not implement it serialize under their
// runtime type name.
type ConnectionNamer interface {
	ConnectionName() string
}

// ConnectionRegistry is the external name-to-type mapping for connections.
// The tool management layer populates it before contract resolution runs;
// this package only reads it.
type ConnectionRegistry interface {
	// Lookup returns the registered connection type for a name.
	Lookup(name string) (reflect.Type, bool)

	// Types enumerates every registered connection type.
	Types() []reflect.Type

	// CustomBase returns the base type for custom strong-type connections,
	// or nil if none is designated.
	CustomBase() reflect.Type
}

// Connections decides whether names, types, and values represent
// connections, against an injected registry.
type Connections struct {
	registry ConnectionRegistry
}

// NewConnections creates a facade over the given registry. A nil registry is
// allowed: every lookup then reports not-a-connection.
func NewConnections(reg ConnectionRegistry) *Connections {
	return &Connections{registry: reg}
}

// Class returns the registered connection type for name, or nil when the
// name is unknown.
func (c *Connections) Class(name string) reflect.Type {
	if c.registry == nil {
		return nil
	}
	t, ok := c.registry.Lookup(name)
	if !ok {
		return nil
	}
	return t
}

// IsClassName reports whether name is a registered connection type name.
func (c *Connections) IsClassName(name string) bool {
	return c.Class(name) != nil
}

// IsValue reports whether val is a connection instance or connection type.
// Instances are normalized to their type, and pointers to their element
// type, before the registry check.
func (c *Connections) IsValue(val any) bool {
	if c.registry == nil || val == nil {
		return false
	}
	t := typeOfValue(val)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, rt := range c.registry.Types() {
		if rt == t {
			return true
		}
	}
	return c.isCustomStrongType(t)
}

// isCustomStrongType checks descent from the designated custom connection
// base, rendered in Go as struct embedding. Any failure mode — no base
// designated, a non-struct type — counts as not-a-connection, never as a
// fault.
func (c *Connections) isCustomStrongType(t reflect.Type) bool {
	base := c.registry.CustomBase()
	if base == nil || t == nil {
		return false
	}
	if t == base {
		return true
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == base {
			return true
		}
	}
	return false
}

// SerializeConnection returns the stable registered name for a connection
// value: the ConnectionNamer name when one is supplied, otherwise the
// runtime type's own name. Values not recognized as connections are
// rejected.
func (c *Connections) SerializeConnection(val any) (string, error) {
	if !c.IsValue(val) {
		return "", fmt.Errorf("invalid connection value %v", val)
	}
	if n, ok := val.(ConnectionNamer); ok {
		if name := n.ConnectionName(); name != "" {
			return name, nil
		}
	}
	t := typeOfValue(val)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name(), nil
}

func typeOfValue(val any) reflect.Type {
	if t, ok := val.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(val)
}

// TypeRegistry is an in-memory ConnectionRegistry. Its lifecycle is
// populate-then-read: registration happens at startup, before any contract
// resolution; afterwards reads are safe from any goroutine.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
	base  reflect.Type
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]reflect.Type)}
}

// Register adds a connection type under the given name, replacing any
// previous registration of that name.
func (r *TypeRegistry) Register(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = t
}

// SetCustomBase designates the base type for custom strong-type connections.
func (r *TypeRegistry) SetCustomBase(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = t
}

// Lookup implements ConnectionRegistry.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Types implements ConnectionRegistry.
func (r *TypeRegistry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out
}

// CustomBase implements ConnectionRegistry.
func (r *TypeRegistry) CustomBase() reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.base
}

// Names returns every registered connection type name.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	return out
}
