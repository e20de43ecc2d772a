package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// ── Capabilities ──────────────────────────────────────────────────────────────

// Resolver is the lookup facade: Has / Get.
type Resolver interface {
	Has(id string) bool
	Get(id string) (any, error)
}

// Maker resolves identifiers with explicit parameters.
type Maker interface {
	Make(id string, params Params) (any, error)
}

// Invoker calls arbitrary targets with autowired parameters.
type Invoker interface {
	Call(target any, params Params) (any, error)
}

// Identifiers the container registers for itself at construction.
var (
	ContainerID = KeyOf[*Container]()
	ResolverID  = KeyOf[Resolver]()
	MakerID     = KeyOf[Maker]()
	InvokerID   = KeyOf[Invoker]()
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container. It mirrors Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / Shared / Instance with alias, factory, scalar, shared and weak bindings
//   - Get / Make with cycle detection and autowiring from a type manifest
//   - Call for funcs, described callables, methods and "Type::method" targets
//   - Tags (group multiple identifiers under one tag)
//   - Extend (decorate produced values)
//   - Contextual binding (when A needs B, give it C)
//   - Rebinding and resolved event callbacks
//
// A Container is not safe for concurrent resolution: hosts must serialize
// Make/Get/Call calls that may run at the same time.
type Container struct {
	state    *state
	types    *Types
	resolver *resolver
	invoker  *invoker

	log     log.FieldLogger
	metrics *resolverMetrics

	mu sync.RWMutex

	// tag → []identifier
	tags map[string][]string

	// contextual: when[concrete][dependency] = binding
	contextual map[string]map[string]Binding

	// identifier → extender funcs, applied in registration order
	extenders map[string][]Extender

	// rebound callbacks: identifier → []func(identifier, binding)
	reboundCallbacks map[string][]func(string, Binding)

	// resolved callbacks: []func(identifier, instance)
	afterResolving []func(string, any)
}

// Extender decorates a value produced for an identifier.
type Extender func(instance any, c *Container) (any, error)

// New creates a container that already knows how to resolve itself under
// ContainerID, ResolverID, MakerID and InvokerID.
func New(opts ...Option) *Container {
	c := &Container{
		state:            newState(),
		tags:             make(map[string][]string),
		extenders:        make(map[string][]Extender),
		reboundCallbacks: make(map[string][]func(string, Binding)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = discardLogger()
	}
	if c.metrics == nil {
		c.metrics = newResolverMetrics(metrics.NewRegistry())
	}
	if c.types == nil {
		c.types = NewTypes()
	}
	c.resolver = &resolver{c: c, state: c.state, types: c.types}
	c.invoker = &invoker{r: c.resolver}
	c.registerSelf()
	return c
}

// registerSelf binds the container under its own identifiers. The reference
// is non-owning, so services holding the container do not tie its lifetime
// to their own.
func (c *Container) registerSelf() {
	self := AliasBinding{Target: ContainerID}
	c.state.bind(ContainerID, WeakBinding{Ref: NewWeakRef(c)})
	c.state.bind(ResolverID, self)
	c.state.bind(MakerID, self)
	c.state.bind(InvokerID, self)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers concrete for id, replacing any earlier binding. Cached
// instances are left untouched. Replacing a binding fires the Rebinding
// callbacks of id.
//
//	// Laravel: $app->bind(UserRepository::class, fn($app) => new EloquentUserRepository($app))
//	c.Bind("UserRepository", func(db *sql.DB) *EloquentUserRepository {
//	    return &EloquentUserRepository{DB: db}
//	}, false)
//
// Funcs and *Callable become factories, WeakRef values weak bindings,
// strings aliases, other scalars scalar bindings, anything else a shared
// object. Wrap a value with Alias, Factory, Scalar, Shared or Weak to pick the
// variant explicitly.
func (c *Container) Bind(id string, concrete any, shared bool) error {
	b, err := classify(id, concrete, shared)
	if err != nil {
		return err
	}
	_, rebound := c.state.binding(id)
	c.state.bind(id, b)
	c.log.WithFields(log.Fields{"id": id, "kind": b.Kind(), "shared": isSharedBinding(b)}).Debug("container: bound")
	if rebound {
		c.fireRebound(id, b)
	}
	return nil
}

// Shared registers concrete as a shared binding, resolved at most once.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
//	c.Shared("cache", func(cfg *config.Config) *RedisCache { return cache.NewRedis(cfg) })
func (c *Container) Shared(id string, concrete any) error {
	return c.Bind(id, concrete, true)
}

// Instance stores a pre-built value and returns it unchanged.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
func (c *Container) Instance(id string, instance any) any {
	c.state.store(id, instance)
	return instance
}

// Describe adds a constructible type to the autowiring manifest.
func (c *Container) Describe(desc TypeDescriptor) error {
	return c.types.Register(desc)
}

// Types returns the autowiring manifest.
func (c *Container) Types() *Types { return c.types }

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves id. params override same-named constructor or factory
// parameters and are ignored when id is already cached.
//
//	// Laravel: $app->make(UserRepository::class, ['table' => 'users'])
//	repo, err := c.Make("UserRepository", container.Params{"table": "users"})
func (c *Container) Make(id string, params Params) (any, error) {
	return c.resolver.make(id, params)
}

// Get resolves id without parameters. A failure for an identifier that is
// not registered is reported as NotFoundError, unless it is a cycle.
func (c *Container) Get(id string) (any, error) {
	v, err := c.Make(id, nil)
	if err == nil {
		return v, nil
	}
	if c.Has(id) || IsCircular(err) {
		return nil, err
	}
	if nf, ok := err.(*NotFoundError); ok && nf.ID == id {
		return nil, err
	}
	return nil, &NotFoundError{ID: id, cause: err}
}

// Call invokes target, filling its parameters from params, the container,
// and declared defaults. Shared values cached while filling them are dropped
// again if the call fails.
//
//	// Laravel: $app->call([$mailer, 'send'], ['to' => 'a@b.c'])
//	c.Call(container.Method{Receiver: mailer, Name: "Send"}, container.Params{"arg0": "a@b.c"})
func (c *Container) Call(target any, params Params) (any, error) {
	return c.resolver.frame(targetName(target), func() (any, error) {
		return c.invoker.call(target, params)
	})
}

// ── Inspection ────────────────────────────────────────────────────────────────

// Has reports whether id has a cached instance or a binding. It does not
// imply that resolution will succeed.
func (c *Container) Has(id string) bool {
	return c.state.has(id)
}

// Bound reports whether id has a registered binding.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(id string) bool {
	_, ok := c.state.binding(id)
	return ok
}

// Resolved reports whether id currently has a cached instance.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(id string) bool {
	_, ok := c.state.instance(id)
	return ok
}

// IsShared reports whether id is cached, or bound with the shared flag.
func (c *Container) IsShared(id string) bool {
	if _, ok := c.state.instance(id); ok {
		return true
	}
	if b, ok := c.state.binding(id); ok {
		return isSharedBinding(b)
	}
	return false
}

// Entry describes one registered identifier.
type Entry struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Shared   bool   `json:"shared"`
	Resolved bool   `json:"resolved"`
}

// Bindings returns every registered identifier, sorted (for debugging).
func (c *Container) Bindings() []Entry {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	out := make([]Entry, 0, len(c.state.bindings)+len(c.state.instances))
	for id, b := range c.state.bindings {
		_, resolved := c.state.instances[id]
		out = append(out, Entry{
			ID:       id,
			Kind:     b.Kind().String(),
			Shared:   resolved || isSharedBinding(b),
			Resolved: resolved,
		})
	}
	for id := range c.state.instances {
		if _, already := c.state.bindings[id]; !already {
			out = append(out, Entry{ID: id, Kind: "instance", Shared: true, Resolved: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Metrics returns the registry holding the resolution counters.
func (c *Container) Metrics() metrics.Registry { return c.metrics.registry }

// Logger returns the container's logger.
func (c *Container) Logger() log.FieldLogger { return c.log }

// ── Forget / Flush ────────────────────────────────────────────────────────────

// Forget removes the binding and the cached instance of id.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(id string) {
	c.state.forget(id)
	c.log.WithField("id", id).Debug("container: forgotten")
}

// Flush drops every binding, instance, tag, extender and contextual binding,
// then registers the container under its own identifiers again. Callbacks
// and the type manifest are kept.
func (c *Container) Flush() {
	c.state.reset()
	c.mu.Lock()
	c.tags = make(map[string][]string)
	c.contextual = nil
	c.extenders = make(map[string][]Extender)
	c.mu.Unlock()
	c.registerSelf()
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every value later produced for id, before it is cached.
// A value already cached under id is decorated in place.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) (any, error) {
//	    return logging.NewTimestampWrapper(instance.(*Logger)), nil
//	})
func (c *Container) Extend(id string, fn Extender) error {
	if fn == nil {
		return &InvalidArgumentError{ID: id, Reason: "extender is nil"}
	}
	c.mu.Lock()
	c.extenders[id] = append(c.extenders[id], fn)
	c.mu.Unlock()

	inst, ok := c.state.instance(id)
	if !ok {
		return nil
	}
	extended, err := fn(inst, c)
	if err != nil {
		return producerFailed(id, err)
	}
	c.state.store(id, extended)
	return nil
}

func (c *Container) extend(id string, v any) (any, error) {
	c.mu.RLock()
	exts := c.extenders[id]
	c.mu.RUnlock()
	for _, ext := range exts {
		var err error
		if v, err = ext(v, c); err != nil {
			return nil, producerFailed(id, err)
		}
	}
	return v, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple identifiers under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(ids []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], ids...)
}

// Tagged resolves all identifiers registered under a tag, in tag order.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	ids := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	result := make([]any, 0, len(ids))
	for _, id := range ids {
		v, err := c.Make(id, nil)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired whenever Bind replaces an existing
// binding of id. It receives the new binding.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(id string, cb func(id string, b Binding)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reboundCallbacks[id] = append(c.reboundCallbacks[id], cb)
}

func (c *Container) fireRebound(id string, b Binding) {
	c.mu.RLock()
	cbs := c.reboundCallbacks[id]
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(id, b)
	}
}

// AfterResolving registers a callback fired after an identifier is produced
// from a binding or autowired. Cache hits do not fire it.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(id string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(id string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(id, instance)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	// Instead of: v, err := c.Make("db", nil); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c Maker, id string) (T, error) {
	var zero T
	v, err := c.Make(id, nil)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{ID: id, Reason: fmt.Sprintf("resolved to %T, not %v", v, reflect.TypeFor[T]())}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Meant for bootstrap code.
func MustResolve[T any](c Maker, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}

// Invoke calls target through c and type-asserts its result.
func Invoke[T any](c Invoker, target any, params Params) (T, error) {
	var zero T
	v, err := c.Call(target, params)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{ID: fmt.Sprintf("%v", target), Reason: fmt.Sprintf("call returned %T, not %v", v, reflect.TypeFor[T]())}
	}
	return typed, nil
}
