package container

import "weak"

// WeakRef is a non-owning handle. Deref reports false once the referent is gone.
type WeakRef interface {
	Deref() (any, bool)
}

type weakPointer[T any] struct {
	p weak.Pointer[T]
}

// NewWeakRef wraps p in a weak pointer. The container never keeps p alive
// through the returned reference.
func NewWeakRef[T any](p *T) WeakRef {
	return weakPointer[T]{p: weak.Make(p)}
}

func (w weakPointer[T]) Deref() (any, bool) {
	v := w.p.Value()
	if v == nil {
		return nil, false
	}
	return v, true
}
