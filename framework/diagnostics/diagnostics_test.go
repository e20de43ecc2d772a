package diagnostics_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/diagnostics"
	"github.com/km-arc/go-container/framework/routing"
)

func setup(t *testing.T) (*container.Container, *routing.Router) {
	t.Helper()
	logger := log.New()
	logger.SetOutput(io.Discard)

	c := container.New()
	require.NoError(t, c.Shared("mailer", func() string { return "smtp" }))
	require.NoError(t, c.Bind("mail", "mailer", false))
	_, err := c.Make("mailer", nil)
	require.NoError(t, err)

	r := routing.New(logger)
	diagnostics.Mount(r, c, true)
	return c, r
}

func get(t *testing.T, r *routing.Router, path string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.NewDecoder(rr.Body).Decode(out))
	}
	return rr.Code
}

func TestBindings_List(t *testing.T) {
	_, r := setup(t)

	var body struct {
		Data []container.Entry `json:"data"`
	}
	code := get(t, r, "/container/bindings", &body)

	require.Equal(t, http.StatusOK, code)
	ids := make([]string, 0, len(body.Data))
	for _, e := range body.Data {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, "mailer")
	assert.Contains(t, ids, "mail")
	assert.Contains(t, ids, container.ContainerID)
}

func TestBindings_Show(t *testing.T) {
	_, r := setup(t)

	var body struct {
		Data diagnostics.Binding `json:"data"`
	}
	code := get(t, r, "/container/bindings/mailer", &body)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "mailer", body.Data.ID)
	assert.Equal(t, "factory", body.Data.Kind)
	assert.True(t, body.Data.Has)
	assert.True(t, body.Data.Bound)
	assert.True(t, body.Data.Shared)
	assert.True(t, body.Data.Resolved)
}

func TestBindings_ShowSlashedID(t *testing.T) {
	_, r := setup(t)

	var body struct {
		Data diagnostics.Binding `json:"data"`
	}
	code := get(t, r, "/container/bindings/"+container.MakerID, &body)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, container.MakerID, body.Data.ID)
	assert.Equal(t, "alias", body.Data.Kind)
}

func TestBindings_ShowUnknown(t *testing.T) {
	_, r := setup(t)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	code := get(t, r, "/container/bindings/nope", &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body.Error)
	assert.Contains(t, body.Message, "[nope]")
}

func TestBindings_ShowMissingID(t *testing.T) {
	_, r := setup(t)

	var body struct {
		Error string `json:"error"`
	}
	code := get(t, r, "/container/bindings/", &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_argument", body.Error)
}

func TestBindings_NotCached(t *testing.T) {
	_, r := setup(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/container/bindings", nil))
	assert.Contains(t, rr.Header().Get("Cache-Control"), "no-cache")
}

func TestMetrics(t *testing.T) {
	c, r := setup(t)
	_, err := c.Make("mailer", nil)
	require.NoError(t, err)

	var body struct {
		Data map[string]any `json:"data"`
	}
	code := get(t, r, "/container/metrics", &body)

	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body.Data[container.StatResolutions])
	assert.EqualValues(t, 1, body.Data[container.StatCacheHits])
	latency, ok := body.Data[container.StatLatency].(map[string]any)
	require.True(t, ok, "latency should be a timer summary")
	assert.EqualValues(t, 2, latency["count"])
}

func TestMetrics_Disabled(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	r := routing.New(logger)
	diagnostics.Mount(r, container.New(), false)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/container/metrics", nil))
	assert.Equal(t, http.StatusOK, get(t, r, "/container/bindings", nil))
}
