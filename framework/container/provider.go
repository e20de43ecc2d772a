package container

import (
	"sort"

	"github.com/pkg/errors"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Shared("logger", func(cfg *config.Config) *logrus.Logger {
//	        return config.NewLogger(cfg.Log)
//	    })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    logger, err := container.Resolve[*logrus.Logger](app, "logger")
//	    if err != nil {
//	        return err
//	    }
//	    logger.Info("Application booted")
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the identifiers a deferred provider registers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() identifiers is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // identifier → provider
	loaded     map[ServiceProvider]bool
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		loaded:     make(map[ServiceProvider]bool),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, id := range provider.Provides() {
			r.deferred[id] = provider
		}
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return errors.Wrapf(err, "registering %T", provider)
	}
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting %T", provider)
		}
	}
	return nil
}

// interceptDeferred binds a placeholder factory for each deferred identifier.
// The first resolution registers the provider for real, then resolves the
// binding the provider installed in place of the placeholder.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	for _, id := range provider.Provides() {
		id := id
		placeholder := NewCallable("deferred:"+id, nil, func([]any) (any, error) {
			if r.loaded[provider] {
				return nil, &ResolutionError{ID: id, Reason: "deferred provider did not bind it"}
			}
			if err := r.load(provider); err != nil {
				return nil, err
			}
			return r.app.resolver.resolveBound(id, nil)
		})
		placeholder.placeholder = true
		if err := r.app.Bind(id, placeholder, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.loaded[provider] = true
	if err := provider.Register(r.app); err != nil {
		r.loaded[provider] = false
		return errors.Wrapf(err, "registering deferred %T", provider)
	}
	for _, id := range provider.Provides() {
		delete(r.deferred, id)
	}
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting deferred %T", provider)
		}
	}
	return nil
}

// Boot calls Boot() on all eager providers.
// Must be called after ALL providers have been registered.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting %T", provider)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }

// Deferred returns the identifiers whose providers have not loaded yet.
func (r *ProviderRegistry) Deferred() []string {
	out := make([]string, 0, len(r.deferred))
	for id := range r.deferred {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
