package container

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// resolver walks the binding graph. Its path is shared by every nested make
// issued while a top-level make is running, including calls made back into
// the container from factories, so re-entrant cycles are caught.
type resolver struct {
	c     *Container
	state *state
	types *Types
	path  []string

	// number of open frames; zero between top-level calls
	depth int
}

// make resolves id, preferring a cached instance, then a binding, then the
// type manifest.
func (r *resolver) make(id string, params Params) (v any, err error) {
	if r.depth == 0 {
		start := time.Now()
		defer func() {
			r.c.metrics.latency.UpdateSince(start)
			if err != nil {
				r.c.metrics.failures.Inc(1)
				r.c.log.WithField("id", id).Debugf("container: resolution failed: %v", err)
			}
		}()
	}
	return r.frame(id, func() (any, error) { return r.resolve(id, params) })
}

// frame runs fn as one unit of caching. Whatever fn caches is undone if it
// fails, and kept for good once the outermost frame succeeds.
func (r *resolver) frame(id string, fn func() (any, error)) (v any, err error) {
	mark := r.state.mark()
	r.depth++
	defer func() {
		r.depth--
		if err != nil {
			if dropped := r.state.rollback(mark); len(dropped) > 0 {
				r.c.log.WithFields(log.Fields{
					"id":          id,
					"rolled_back": dropped,
				}).Debug("container: rolled back cached instances")
			}
			return
		}
		if r.depth == 0 {
			r.state.commit()
		}
	}()
	return fn()
}

func (r *resolver) resolve(id string, params Params) (any, error) {
	for i, seen := range r.path {
		if seen == id {
			cycle := append(append([]string(nil), r.path[i:]...), id)
			r.c.log.WithField("path", r.path).Warnf("container: cycle while resolving [%s]", id)
			return nil, &CircularDependencyError{Cycle: cycle}
		}
	}

	r.path = append(r.path, id)
	defer func() { r.path = r.path[:len(r.path)-1] }()

	r.c.metrics.resolutions.Inc(1)

	if inst, ok := r.state.instance(id); ok {
		r.c.metrics.hits.Inc(1)
		return inst, nil
	}

	if b, ok := r.state.binding(id); ok {
		v, err := r.resolveBinding(id, b, params)
		if err != nil {
			return nil, err
		}
		r.resolved(id, b.Kind(), isSharedBinding(b), v)
		return v, nil
	}

	v, found, err := r.autowire(id, params)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &NotFoundError{ID: id}
	}
	r.c.metrics.autowires.Inc(1)
	r.c.log.WithField("id", id).Debug("container: autowired")
	r.c.fireAfterResolving(id, v)
	return v, nil
}

func (r *resolver) resolved(id string, kind Kind, shared bool, v any) {
	r.c.log.WithFields(log.Fields{
		"id":     id,
		"kind":   kind,
		"shared": shared,
	}).Debug("container: resolved")
	r.c.fireAfterResolving(id, v)
}

// resolveBinding dispatches on the binding variant. Extenders of id run
// before a shared result is cached.
func (r *resolver) resolveBinding(id string, b Binding, params Params) (any, error) {
	v, err := r.produce(id, b, params)
	if err != nil {
		return nil, err
	}
	if fb, ok := b.(FactoryBinding); ok && fb.Producer.placeholder {
		return v, nil
	}
	if v, err = r.c.extend(id, v); err != nil {
		return nil, err
	}
	if isSharedBinding(b) {
		r.state.cache(id, v)
	}
	return v, nil
}

func (r *resolver) produce(id string, b Binding, params Params) (any, error) {
	switch b := b.(type) {
	case AliasBinding:
		return r.make(b.Target, params)

	case FactoryBinding:
		return r.c.invoker.invoke(id, b.Producer, params)

	case ScalarBinding:
		return b.Value, nil

	case SharedBinding:
		return b.Object, nil

	case WeakBinding:
		v, ok := b.Ref.Deref()
		if !ok {
			return nil, &DanglingReferenceError{ID: id}
		}
		return v, nil
	}

	panic("container: unknown binding variant for [" + id + "]")
}

// resolveBound re-reads id's binding and resolves it without entering id on
// the path again. Deferred providers use it after replacing their own
// placeholder binding.
func (r *resolver) resolveBound(id string, params Params) (any, error) {
	if inst, ok := r.state.instance(id); ok {
		return inst, nil
	}
	b, ok := r.state.binding(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return r.resolveBinding(id, b, params)
}

// autowire constructs id from its type descriptor. found is false when id
// names no constructible type. Autowired values are never cached.
func (r *resolver) autowire(id string, params Params) (v any, found bool, err error) {
	desc, ok := r.types.Lookup(id)
	if !ok || !desc.constructible() {
		return nil, false, nil
	}
	v, err = r.c.invoker.invoke(id, desc.Constructor, params)
	if err != nil {
		return nil, true, err
	}
	v, err = r.c.extend(id, v)
	return v, true, err
}
