package container

import (
	"fmt"
	"reflect"
	"strings"
)

// Method is the (object, methodName) call target.
//
//	c.Call(container.Method{Receiver: mailer, Name: "Send"}, container.Params{"arg0": msg})
type Method struct {
	Receiver any
	Name     string
}

// invoker fills callable parameters from explicit values, the container,
// or declared defaults, in that order.
type invoker struct {
	r *resolver
}

// call accepts a *Callable, any Go func, a Method, or a "Type::method" string.
func (iv *invoker) call(target any, params Params) (any, error) {
	switch t := target.(type) {
	case nil:
		return nil, &InvalidArgumentError{Reason: "call target is nil"}
	case *Callable:
		if t == nil {
			return nil, &InvalidArgumentError{Reason: "call target is a nil callable"}
		}
		return iv.invoke(t.Name, t, params)
	case Method:
		return iv.callMethod(t, params)
	case string:
		return iv.callStatic(t, params)
	}

	if reflect.ValueOf(target).Kind() == reflect.Func {
		fn, err := Func(target)
		if err != nil {
			return nil, &InvalidArgumentError{Reason: err.Error()}
		}
		return iv.invoke(fn.Name, fn, params)
	}
	return nil, &InvalidArgumentError{Reason: fmt.Sprintf("cannot call a value of type %T", target)}
}

// targetName labels a call target in logs.
func targetName(target any) string {
	if s, ok := target.(string); ok {
		return s
	}
	return fmt.Sprintf("%T", target)
}

// callMethod prefers a method declared on the receiver's type descriptor and
// falls back to reflection.
func (iv *invoker) callMethod(m Method, params Params) (any, error) {
	if m.Receiver == nil || m.Name == "" {
		return nil, &InvalidArgumentError{Reason: "method target needs a receiver and a name"}
	}
	typeName := TypeKey(m.Receiver)
	if desc, ok := iv.r.types.Lookup(typeName); ok {
		if md, ok := desc.Methods[m.Name]; ok {
			recv := m.Receiver
			if md.Static {
				recv = nil
			}
			return iv.invoke(typeName, md.bind(typeName, m.Name, recv), params)
		}
	}

	fn, found, err := methodOf(m.Receiver, m.Name)
	if err != nil {
		return nil, &InvalidArgumentError{ID: typeName, Reason: err.Error()}
	}
	if !found {
		return nil, &NotFoundError{ID: typeName + "::" + m.Name}
	}
	return iv.invoke(fn.Name, fn, params)
}

// callStatic handles "Type::method". Instance methods construct their
// receiver through the container first.
func (iv *invoker) callStatic(target string, params Params) (any, error) {
	typeName, method, ok := strings.Cut(target, "::")
	if !ok || typeName == "" || method == "" {
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("call target %q is not of the form Type::method", target)}
	}
	desc, ok := iv.r.types.Lookup(typeName)
	if !ok {
		return nil, &NotFoundError{ID: typeName}
	}
	md, ok := desc.Methods[method]
	if !ok {
		return nil, &NotFoundError{ID: target}
	}
	if md.Static {
		return iv.invoke(target, md.bind(typeName, method, nil), params)
	}

	recv, err := iv.r.make(typeName, Params{})
	if err != nil {
		return nil, err
	}
	return iv.invoke(target, md.bind(typeName, method, recv), params)
}

// dependency resolves typ for owner, honouring contextual bindings.
func (iv *invoker) dependency(owner, typ string) (any, error) {
	if b, ok := iv.r.c.contextualFor(owner, typ); ok {
		return iv.r.resolveBinding(typ, b, Params{})
	}
	return iv.r.make(typ, Params{})
}

// invoke assembles fn's arguments and calls it. owner names the identifier
// or target being produced, for error reporting.
func (iv *invoker) invoke(owner string, fn *Callable, params Params) (any, error) {
	args := make([]any, len(fn.Params))
	for i, p := range fn.Params {
		if v, ok := params[p.Name]; ok {
			args[i] = v
			continue
		}
		if p.Type != "" {
			v, err := iv.dependency(owner, p.Type)
			if err != nil {
				return nil, err
			}
			args[i] = v
			continue
		}
		if p.HasDefault {
			args[i] = p.Default
			continue
		}
		return nil, &ResolutionError{
			ID:     owner,
			Param:  p.Name,
			Reason: "no explicit value, resolvable dependency type, or default",
		}
	}

	v, err := fn.invoke(args)
	if err != nil {
		return nil, producerFailed(owner, err)
	}
	return v, nil
}
