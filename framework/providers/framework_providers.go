package providers

import (
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/diagnostics"
	"github.com/km-arc/go-container/framework/routing"
)

// Identifiers bound by the framework providers. Each short name is an alias
// of the type key that reflected factories depend on.
var (
	ConfigID  = container.KeyOf[*config.Config]()
	LoggerID  = container.KeyOf[log.FieldLogger]()
	MetricsID = container.KeyOf[metrics.Registry]()
	RouterID  = container.KeyOf[*routing.Router]()
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container.
//
// Bound identifiers:
//   - ConfigID          → *config.Config (shared)
//   - "config"          → alias of ConfigID
//   - "configuration"   → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
//
// A preloaded Config is stored as an instance; otherwise EnvFiles are read
// on first resolution.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config != nil {
		app.Instance(ConfigID, p.Config)
	} else {
		envFiles := p.EnvFiles
		if err := app.Shared(ConfigID, func() *config.Config {
			return config.Load(envFiles...)
		}); err != nil {
			return err
		}
	}
	if err := app.Bind("config", ConfigID, false); err != nil {
		return err
	}
	return app.Bind("configuration", "config", false)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger, building it from the
// log config unless one is given.
//
// Bound identifiers:
//   - LoggerID  → log.FieldLogger (shared)
//   - "logger"  → alias of LoggerID
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger log.FieldLogger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		app.Instance(LoggerID, p.Logger)
	} else if err := app.Shared(LoggerID, func(cfg *config.Config) log.FieldLogger {
		return config.NewLogger(cfg.Log).WithField("app", cfg.App.Name)
	}); err != nil {
		return err
	}
	return app.Bind("logger", LoggerID, false)
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider exposes the container's own metrics registry so
// services can record into the same place. The binding happens at boot,
// once config is resolvable, and is skipped when CONTAINER_METRICS is off.
//
// Bound identifiers:
//   - MetricsID  → metrics.Registry (instance)
//   - "metrics"  → alias of MetricsID
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(_ *container.Container) error { return nil }

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigID)
	if err != nil {
		return err
	}
	if !cfg.Container.Metrics {
		return nil
	}
	app.Instance(MetricsID, app.Metrics())
	return app.Bind("metrics", MetricsID, false)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound identifiers:
//   - RouterID  → *routing.Router (shared)
//   - "router"  → alias of RouterID
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	if err := app.Shared(RouterID, func(logger log.FieldLogger) *routing.Router {
		return routing.New(logger)
	}); err != nil {
		return err
	}
	return app.Bind("router", RouterID, false)
}

// ── DiagnosticsServiceProvider ────────────────────────────────────────────────

// DiagnosticsServiceProvider mounts the /container routes on the router
// when CONTAINER_DIAGNOSTICS is enabled. It binds nothing.
type DiagnosticsServiceProvider struct {
	container.BaseProvider
}

func (p *DiagnosticsServiceProvider) Register(_ *container.Container) error { return nil }

func (p *DiagnosticsServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigID)
	if err != nil {
		return err
	}
	if !cfg.Container.Diagnostics {
		return nil
	}
	router, err := container.Resolve[*routing.Router](app, RouterID)
	if err != nil {
		return err
	}
	diagnostics.Mount(router, app, cfg.Container.Metrics)
	return nil
}
