// Package container provides a Laravel-compatible IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container maps string identifiers to bindings and produces values by
// walking that graph: cached instances first, then the registered binding,
// then autowiring from a manifest of constructible types. Shared bindings are
// resolved at most once. Cycles are reported as CircularDependencyError
// instead of recursing forever.
//
// Go has no runtime constructor reflection, so autowiring reads an explicit
// type manifest (Types). Descriptors are written by hand or built from a
// plain Go constructor with Constructor[T].
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithLogger(logger))
//  2. Describe types and register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        // safe to resolve everything after this
//  4. Resolve: c.Get(id), c.Make(id, params), c.Call(target, params)
//
// # Bindings
//
//	// Transient factory: invoked on every Make()
//	// Laravel: $app->bind(Foo::class, fn($app) => new Foo)
//	c.Bind("Foo", func() *Foo { return &Foo{} }, false)
//
//	// Shared factory: invoked once, reused
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache)
//	c.Shared("cache", func(cfg *config.Config) *RedisCache {
//	    return cache.NewRedis(cfg)
//	})
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
//
//	// Alias: a plain string concrete
//	c.Bind("cacheManager", "cache", false)
//
//	// Scalar: wrap strings so they are not read as aliases
//	c.Bind("app.name", container.Scalar("Alice"), false)
//
// # Resolving
//
//	// Untyped
//	// Laravel: $app->make(Cache::class)
//	raw, err := c.Make("cache", nil)
//
//	// Generic, no type assertion required
//	cache, err := container.Resolve[*RedisCache](c, "cache")
//
// # Autowiring
//
//	desc, _ := container.Constructor[*Mailer](NewMailer, "transport", "from")
//	c.Describe(desc)
//	m, err := c.Make(container.KeyOf[*Mailer](), container.Params{"from": "ops@example.com"})
//
// # Calling
//
//	// Laravel: $app->call([$report, 'render'], ['format' => 'pdf'])
//	out, err := c.Call(container.Method{Receiver: report, Name: "Render"}, nil)
//	out, err = c.Call("Report::render", container.Params{"format": "pdf"})
//
// # Contextual Binding
//
//	c.When("PhotoController").Needs("Filesystem").Give(func() *S3Filesystem { return &S3Filesystem{} })
//
// # Tags
//
//	// Laravel: $app->tag([CpuReport::class, MemReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemReport"}, "reports")
//	reports, err := c.Tagged("reports")  // []any
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Shared("mailer", func(cfg *config.Config) *SMTPMailer {
//	        return mail.NewSMTP(cfg.Mail)
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    return app.Shared("heavy", heavySetup) // only called on first Make("heavy")
//	}
package container
