package container

import (
	"fmt"
	"sort"
	"sync"
)

// ── Parameters ────────────────────────────────────────────────────────────────

// Params are explicit parameters keyed by parameter name. Values are passed
// verbatim and never resolved.
type Params map[string]any

// Param describes one parameter of a constructor or callable.
type Param struct {
	Name string

	// Type is the dependency identifier resolved through the container when
	// no explicit value is supplied. Empty for primitives.
	Type string

	Default    any
	HasDefault bool
}

// Dep declares a parameter resolved as the dependency typeID.
func Dep(name, typeID string) Param { return Param{Name: name, Type: typeID} }

// Arg declares a primitive parameter with no default; it must be supplied
// explicitly.
func Arg(name string) Param { return Param{Name: name} }

// Opt declares a primitive parameter with a default value.
func Opt(name string, def any) Param { return Param{Name: name, Default: def, HasDefault: true} }

// ── Callable ──────────────────────────────────────────────────────────────────

// Callable is a function whose parameter list is known to the container.
type Callable struct {
	Name   string
	Params []Param
	fn     func(args []any) (any, error)

	// set on deferred provider placeholders, whose result was already
	// extended and cached under the real binding
	placeholder bool
}

// NewCallable describes fn. fn receives arguments in Params order.
//
//	greet := container.NewCallable("greet",
//	    []container.Param{container.Dep("clock", "Clock"), container.Opt("name", "world")},
//	    func(args []any) (any, error) {
//	        return fmt.Sprintf("%s: hello %s", args[0].(Clock).Now(), args[1]), nil
//	    })
func NewCallable(name string, params []Param, fn func(args []any) (any, error)) *Callable {
	return &Callable{Name: name, Params: params, fn: fn}
}

func (f *Callable) invoke(args []any) (any, error) {
	return f.fn(args)
}

// ── Type descriptors ──────────────────────────────────────────────────────────

// MethodDescriptor describes a method callable through "Type::method" or a Method target.
// Static methods are invoked with a nil receiver.
type MethodDescriptor struct {
	Static bool
	Params []Param
	Fn     func(receiver any, args []any) (any, error)
}

// TypeDescriptor tells the autowiring step how to construct Name.
type TypeDescriptor struct {
	Name        string
	Abstract    bool
	Constructor *Callable
	Methods     map[string]MethodDescriptor
}

// constructible reports whether the descriptor can produce instances.
func (d *TypeDescriptor) constructible() bool {
	return d != nil && !d.Abstract && d.Constructor != nil
}

// Types is the manifest of constructible types, built at startup. It is the
// only source of constructor metadata for autowiring.
type Types struct {
	mu    sync.RWMutex
	types map[string]*TypeDescriptor
}

// NewTypes creates an empty manifest.
func NewTypes() *Types {
	return &Types{types: make(map[string]*TypeDescriptor)}
}

// Register adds or replaces a descriptor.
func (t *Types) Register(d TypeDescriptor) error {
	if d.Name == "" {
		return &InvalidArgumentError{Reason: "type descriptor has no name"}
	}
	if !d.Abstract && d.Constructor == nil {
		return &InvalidArgumentError{ID: d.Name, Reason: "concrete type descriptor has no constructor"}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.types[d.Name] = &d
	return nil
}

// Lookup returns the descriptor for name.
func (t *Types) Lookup(name string) (*TypeDescriptor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.types[name]
	return d, ok
}

// Names returns the registered type names, sorted.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.types))
	for k := range t.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// bind turns a method descriptor, with an optional receiver, into a Callable.
func (m MethodDescriptor) bind(typeName, method string, receiver any) *Callable {
	return &Callable{
		Name:   fmt.Sprintf("%s::%s", typeName, method),
		Params: m.Params,
		fn: func(args []any) (any, error) {
			return m.Fn(receiver, args)
		},
	}
}
