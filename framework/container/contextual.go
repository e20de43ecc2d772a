package container

// ContextualBuilder implements the fluent contextual binding API.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.When("PhotoController").Needs("Filesystem").Give(func() *S3Filesystem {
//	    return filesystem.NewS3(...)
//	})
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain for the identifier being built.
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which dependency identifier the concrete type asks for.
func (b *ContextualBuilder) Needs(dependency string) *ContextualBuilder {
	b.needs = dependency
	return b
}

// Give sets what the concrete type receives instead of the container-wide
// binding. The value is classified like Bind(..., false); contextual values
// are never cached, so a shared flag on an Alias or Factory is dropped.
func (b *ContextualBuilder) Give(concrete any) error {
	binding, err := classify(b.needs, concrete, false)
	if err != nil {
		return err
	}
	binding = transient(binding)

	b.container.mu.Lock()
	defer b.container.mu.Unlock()
	if b.container.contextual == nil {
		b.container.contextual = make(map[string]map[string]Binding)
	}
	if _, ok := b.container.contextual[b.concrete]; !ok {
		b.container.contextual[b.concrete] = make(map[string]Binding)
	}
	b.container.contextual[b.concrete][b.needs] = binding
	return nil
}

// GiveValue is a shorthand for Give when the value is a plain value,
// including strings, which Give would treat as an alias.
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("PhotoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) error {
	return b.Give(ScalarBinding{Value: value})
}

// contextualFor returns the binding registered for (concrete, dependency).
func (c *Container) contextualFor(concrete, dependency string) (Binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[concrete]; ok {
		if b, ok := m[dependency]; ok {
			return b, true
		}
	}
	return nil, false
}

// transient clears the shared flag of the variants that carry one.
func transient(b Binding) Binding {
	switch v := b.(type) {
	case AliasBinding:
		v.Shared = false
		return v
	case FactoryBinding:
		v.Shared = false
		return v
	}
	return b
}
