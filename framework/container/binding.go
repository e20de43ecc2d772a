package container

import (
	"reflect"
)

// ── Binding model ─────────────────────────────────────────────────────────────

// Kind names a Binding variant.
type Kind int

const (
	KindAlias Kind = iota
	KindFactory
	KindScalar
	KindShared
	KindWeak
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindFactory:
		return "factory"
	case KindScalar:
		return "scalar"
	case KindShared:
		return "shared"
	case KindWeak:
		return "weak"
	}
	return "unknown"
}

// Binding is the registered recipe for producing the value of an identifier.
//
// The variant set is closed: only the types in this file implement it.
type Binding interface {
	Kind() Kind
	binding()
}

// AliasBinding redirects resolution to Target.
type AliasBinding struct {
	Target string
	Shared bool
}

// FactoryBinding produces its value by invoking Producer.
type FactoryBinding struct {
	Producer *Callable
	Shared   bool
}

// ScalarBinding returns Value verbatim and is never cached.
type ScalarBinding struct {
	Value any
}

// SharedBinding returns a pre-built Object verbatim.
type SharedBinding struct {
	Object any
}

// WeakBinding dereferences Ref at resolution time.
type WeakBinding struct {
	Ref WeakRef
}

func (AliasBinding) Kind() Kind   { return KindAlias }
func (FactoryBinding) Kind() Kind { return KindFactory }
func (ScalarBinding) Kind() Kind  { return KindScalar }
func (SharedBinding) Kind() Kind  { return KindShared }
func (WeakBinding) Kind() Kind    { return KindWeak }

func (AliasBinding) binding()   {}
func (FactoryBinding) binding() {}
func (ScalarBinding) binding()  {}
func (SharedBinding) binding()  {}
func (WeakBinding) binding()    {}

// Alias builds an AliasBinding.
//
//	c.Bind("cache", container.Alias("redis"), false)
func Alias(target string) Binding { return AliasBinding{Target: target} }

// Factory builds a FactoryBinding from a *Callable or any Go func.
// It panics on a value that is not callable; use Bind for an error instead.
func Factory(producer any) Binding {
	fn, err := callableOf(producer)
	if err != nil {
		panic(err)
	}
	return FactoryBinding{Producer: fn}
}

// Scalar builds a ScalarBinding. Use it to bind a plain string as a value
// rather than as an alias.
//
//	c.Bind("app.name", container.Scalar("Alice"), false)
func Scalar(v any) Binding { return ScalarBinding{Value: v} }

// Shared builds a SharedBinding around a pre-built object.
func Shared(obj any) Binding { return SharedBinding{Object: obj} }

// Weak builds a WeakBinding.
func Weak(ref WeakRef) Binding { return WeakBinding{Ref: ref} }

// isSharedBinding reports the binding's own shared flag. Only Alias and Factory carry one.
func isSharedBinding(b Binding) bool {
	switch v := b.(type) {
	case AliasBinding:
		return v.Shared
	case FactoryBinding:
		return v.Shared
	}
	return false
}

// ── Dispatch ──────────────────────────────────────────────────────────────────

// classify turns a raw concrete value into exactly one Binding variant.
//
// Priority: Binding, callable, WeakRef, string, other scalar, other object.
func classify(id string, concrete any, shared bool) (Binding, error) {
	switch v := concrete.(type) {
	case nil:
		return nil, &InvalidArgumentError{ID: id, Reason: "concrete value is nil"}
	case AliasBinding:
		v.Shared = v.Shared || shared
		return v, nil
	case FactoryBinding:
		if v.Producer == nil {
			return nil, &InvalidArgumentError{ID: id, Reason: "factory has no producer"}
		}
		v.Shared = v.Shared || shared
		return v, nil
	case ScalarBinding, SharedBinding:
		return v.(Binding), nil
	case WeakBinding:
		if v.Ref == nil {
			return nil, &InvalidArgumentError{ID: id, Reason: "weak binding has no reference"}
		}
		return v, nil
	case *Callable:
		if v == nil {
			return nil, &InvalidArgumentError{ID: id, Reason: "callable is nil"}
		}
		return FactoryBinding{Producer: v, Shared: shared}, nil
	case WeakRef:
		return WeakBinding{Ref: v}, nil
	case string:
		return AliasBinding{Target: v, Shared: shared}, nil
	}

	rv := reflect.ValueOf(concrete)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return nil, &InvalidArgumentError{ID: id, Reason: "factory func is nil"}
		}
		fn, err := Func(concrete)
		if err != nil {
			return nil, &InvalidArgumentError{ID: id, Reason: err.Error()}
		}
		return FactoryBinding{Producer: fn, Shared: shared}, nil
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return ScalarBinding{Value: concrete}, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, &InvalidArgumentError{ID: id, Reason: "concrete pointer is nil"}
		}
		return SharedBinding{Object: concrete}, nil
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Chan:
		return SharedBinding{Object: concrete}, nil
	}

	return nil, &InvalidArgumentError{ID: id, Reason: "unknown binding type " + rv.Kind().String()}
}
