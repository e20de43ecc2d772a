package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
)

func newApp(t *testing.T, env map[string]string) *app.Application {
	t.Helper()
	t.Setenv("APP_NAME", "KernelTest")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("LOG_LEVEL", "panic")
	for k, v := range env {
		t.Setenv(k, v)
	}
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)
	return a
}

type greetingProvider struct {
	container.BaseProvider
	booted bool
}

func (p *greetingProvider) Register(c *container.Container) error {
	return c.Shared("greeting", func(cfg *config.Config, logger log.FieldLogger) string {
		logger.Debug("building greeting")
		return "hello from " + cfg.App.Name
	})
}

func (p *greetingProvider) Boot(c *container.Container) error {
	p.booted = true
	return nil
}

func TestNew_BindsFrameworkServices(t *testing.T) {
	a := newApp(t, nil)

	cfg, err := container.Resolve[*config.Config](a, "config")
	require.NoError(t, err)
	assert.Same(t, a.Config(), cfg)

	viaAlias, err := a.Get("configuration")
	require.NoError(t, err)
	assert.Same(t, cfg, viaAlias)

	_, err = container.Resolve[log.FieldLogger](a, "logger")
	require.NoError(t, err)

	router, err := a.Router()
	require.NoError(t, err)
	again, err := a.Router()
	require.NoError(t, err)
	assert.Same(t, router, again)
}

func TestEnvironmentHelpers(t *testing.T) {
	a := newApp(t, map[string]string{"APP_DEBUG": "false"})

	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsDebug())
	assert.Equal(t, "KernelTest", a.Config().App.Name)
	assert.NotEmpty(t, a.Version())
}

func TestBoot_UserProviderResolvesFrameworkServices(t *testing.T) {
	a := newApp(t, nil)
	p := &greetingProvider{}
	require.NoError(t, a.Register(p))
	require.NoError(t, a.Boot())

	assert.True(t, p.booted)
	got, err := container.Resolve[string](a, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello from KernelTest", got)
}

func TestBoot_MountsDiagnostics(t *testing.T) {
	a := newApp(t, map[string]string{"CONTAINER_DIAGNOSTICS": "true", "CONTAINER_METRICS": "true"})
	require.NoError(t, a.Boot())

	router, err := a.Router()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/container/bindings/config", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data container.Entry `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "alias", body.Data.Kind)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/container/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.True(t, a.Has(providers.MetricsID))
}

func TestBoot_DiagnosticsDisabled(t *testing.T) {
	a := newApp(t, map[string]string{"CONTAINER_DIAGNOSTICS": "false", "CONTAINER_METRICS": "false"})
	require.NoError(t, a.Boot())

	router, err := a.Router()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/container/bindings", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, a.Has("metrics"))
}

func TestRun_StopsWithContext(t *testing.T) {
	a := newApp(t, map[string]string{"APP_PORT": "0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, a.Providers.Booted())
}
