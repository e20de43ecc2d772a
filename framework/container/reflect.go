package container

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeFor[error]()

// ── Type keys ─────────────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// identifier when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "example.com/app.UserRepository"
//	c.Shared(key, NewUserRepository)
//	repo, err := container.Resolve[UserRepository](c, key)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	return typeKeyOf(t)
}

// KeyOf is TypeKey for a type parameter.
func KeyOf[T any]() string {
	return typeKeyOf(reflect.TypeFor[T]())
}

func typeKeyOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// primitive kinds carry no dependency type.
func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// ── Callables from Go funcs ───────────────────────────────────────────────────

// Func describes an arbitrary Go func as a Callable. Parameters are named
// arg0…argN unless names are given; non-primitive parameters depend on the
// TypeKey of their type. fn must return T, (T, error), error, or nothing.
//
//	fn, _ := container.Func(func(db *sql.DB, table string) (*Repo, error) {...}, "db", "table")
//	repo, err := c.Call(fn, container.Params{"table": "users"})
func Func(fn any, names ...string) (*Callable, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, errors.Errorf("f must be a func; was %T", fn)
	}
	if v.IsNil() {
		return nil, errors.New("f must not be a nil func")
	}
	return funcOf(v, funcName(v), names)
}

// MustFunc is Func that panics on error.
func MustFunc(fn any, names ...string) *Callable {
	c, err := Func(fn, names...)
	if err != nil {
		panic(err)
	}
	return c
}

func funcOf(v reflect.Value, name string, names []string) (*Callable, error) {
	t := v.Type()
	if t.IsVariadic() {
		return nil, errors.Errorf("f must not be variadic; was %v", t)
	}
	if err := checkResults(t); err != nil {
		return nil, err
	}

	params := make([]Param, t.NumIn())
	for i := range params {
		in := t.In(i)
		p := Param{Name: fmt.Sprintf("arg%d", i)}
		if i < len(names) && names[i] != "" {
			p.Name = names[i]
		}
		if !isPrimitive(in) {
			p.Type = typeKeyOf(in)
		}
		params[i] = p
	}

	return &Callable{
		Name:   name,
		Params: params,
		fn: func(args []any) (any, error) {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				av, err := argValue(a, t.In(i))
				if err != nil {
					return nil, &ResolutionError{ID: name, Param: params[i].Name, Reason: err.Error()}
				}
				in[i] = av
			}
			return results(v.Call(in))
		},
	}, nil
}

func checkResults(t reflect.Type) error {
	switch t.NumOut() {
	case 0:
		return nil
	case 1:
		return nil
	case 2:
		if !t.Out(1).Implements(errorType) {
			return errors.Errorf("f returns two results so the second must implement error; was %v", t)
		}
		return nil
	}
	return errors.Errorf("f must return at most 2 values with the second an error; was %v with %v results", t, t.NumOut())
}

func argValue(a any, want reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, errors.Errorf("nil is not assignable to %v", want)
	}
	av := reflect.ValueOf(a)
	if !av.Type().AssignableTo(want) {
		return reflect.Value{}, errors.Errorf("value of type %v is not assignable to %v", av.Type(), want)
	}
	return av, nil
}

func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			if out[0].IsNil() {
				return nil, nil
			}
			return nil, out[0].Interface().(error)
		}
		return out[0].Interface(), nil
	}
	if !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}

// callableOf accepts a *Callable or any Go func.
func callableOf(v any) (*Callable, error) {
	if c, ok := v.(*Callable); ok {
		if c == nil {
			return nil, errors.New("callable is nil")
		}
		return c, nil
	}
	return Func(v)
}

// methodOf describes receiver.name via reflection.
func methodOf(receiver any, name string) (*Callable, bool, error) {
	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() {
		return nil, false, nil
	}
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, false, nil
	}
	fn, err := funcOf(m, fmt.Sprintf("%s::%s", typeKeyOf(rv.Type()), name), nil)
	return fn, true, err
}

// ── Descriptors from Go constructors ──────────────────────────────────────────

// Constructor builds a TypeDescriptor named KeyOf[T] whose constructor is fn.
//
//	desc, _ := container.Constructor[*Mailer](NewMailer, "transport", "from")
//	c.Describe(desc)
//	m, err := container.Resolve[*Mailer](c, container.KeyOf[*Mailer]())
func Constructor[T any](fn any, names ...string) (TypeDescriptor, error) {
	ctor, err := Func(fn, names...)
	if err != nil {
		return TypeDescriptor{}, err
	}
	return TypeDescriptor{Name: KeyOf[T](), Constructor: ctor}, nil
}

// Abstract builds a descriptor marking T as non-constructible, such as an
// interface that must be bound explicitly.
func Abstract[T any]() TypeDescriptor {
	return TypeDescriptor{Name: KeyOf[T](), Abstract: true}
}
