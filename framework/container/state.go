package container

import "sync"

// state owns the two mappings of one container.
type state struct {
	mu sync.RWMutex

	// identifier → registered recipe
	bindings map[string]Binding

	// identifier → realized value (explicit instances and shared results)
	instances map[string]any

	// cache writes of the running resolution, undone frame by frame on failure
	journal []cacheWrite
}

// cacheWrite records what an instances entry held before the resolver cached
// into it.
type cacheWrite struct {
	id      string
	prev    any
	hadPrev bool
}

func newState() *state {
	return &state{
		bindings:  make(map[string]Binding),
		instances: make(map[string]any),
	}
}

func (s *state) binding(id string) (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[id]
	return b, ok
}

func (s *state) instance(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.instances[id]
	return v, ok
}

func (s *state) has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, inInstances := s.instances[id]
	_, inBindings := s.bindings[id]
	return inInstances || inBindings
}

func (s *state) bind(id string, b Binding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[id] = b
}

func (s *state) store(id string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[id] = v
}

// forget drops both the binding and the instance of id.
func (s *state) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, id)
	delete(s.instances, id)
}

// reset empties both mappings.
func (s *state) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = make(map[string]Binding)
	s.instances = make(map[string]any)
	s.journal = s.journal[:0]
}

// cache stores a resolver-produced shared value and journals the entry it
// replaces.
func (s *state) cache(id string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.instances[id]
	s.journal = append(s.journal, cacheWrite{id: id, prev: prev, hadPrev: had})
	s.instances[id] = v
}

// mark returns the journal position a resolution frame starts at.
func (s *state) mark() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.journal)
}

// commit forgets the journal once the outermost frame succeeds.
func (s *state) commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = s.journal[:0]
}

// rollback undoes every cache write made since mark, newest first, and
// returns the identifiers it touched.
func (s *state) rollback(mark int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mark > len(s.journal) {
		mark = len(s.journal)
	}
	var touched []string
	for i := len(s.journal) - 1; i >= mark; i-- {
		w := s.journal[i]
		if w.hadPrev {
			s.instances[w.id] = w.prev
		} else {
			delete(s.instances, w.id)
		}
		touched = append(touched, w.id)
	}
	s.journal = s.journal[:mark]
	return touched
}
