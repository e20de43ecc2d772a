package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/cmd"
	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
)

// ── Demo services ─────────────────────────────────────────────────────────────

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// utcClock reports the wrapped clock's time in UTC.
type utcClock struct{ Clock }

func (c utcClock) Now() time.Time { return c.Clock.Now().UTC() }

type Greeter struct {
	clock Clock
	name  string
}

func NewGreeter(clock Clock, name string) *Greeter {
	return &Greeter{clock: clock, name: name}
}

func (g *Greeter) Greet(who string) string {
	return fmt.Sprintf("[%s] %s says hello to %s", g.clock.Now().Format(time.Kitchen), g.name, who)
}

// AppServiceProvider registers the demo services.
type AppServiceProvider struct{ container.BaseProvider }

func (p *AppServiceProvider) Register(app *container.Container) error {
	clockID := container.KeyOf[Clock]()
	if err := app.Shared(clockID, func() Clock { return systemClock{} }); err != nil {
		return err
	}
	if err := app.Extend(clockID, func(v any, _ *container.Container) (any, error) {
		return utcClock{v.(Clock)}, nil
	}); err != nil {
		return err
	}

	greeter, err := container.Constructor[*Greeter](NewGreeter, "clock", "name")
	if err != nil {
		return err
	}
	if err := app.Describe(greeter); err != nil {
		return err
	}

	// "greeter" is the autowired *Greeter named after the application
	return app.Shared("greeter", func(cfg *config.Config, m container.Maker) (any, error) {
		return m.Make(container.KeyOf[*Greeter](), container.Params{"name": cfg.App.Name})
	})
}

func (p *AppServiceProvider) Boot(app *container.Container) error {
	g, err := container.Resolve[*Greeter](app, "greeter")
	if err != nil {
		return err
	}
	app.Logger().WithField("greeting", g.Greet("the container")).Debug("demo: booted")
	return nil
}

func main() {
	cli := cmd.NewCLI(func(envFiles []string) (*app.Application, error) {
		a, err := app.New(envFiles...)
		if err != nil {
			return nil, err
		}
		if err := a.Register(&AppServiceProvider{}); err != nil {
			return nil, err
		}
		return a, nil
	})

	if err := cli.Exec(); err != nil {
		log.WithError(err).Error("go-container failed")
		os.Exit(1)
	}
}
