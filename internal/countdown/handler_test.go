package countdown

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(m *Module) *fiber.App {
	return newTestAppCtx(context.Background(), m)
}

func newTestAppCtx(ctx context.Context, m *Module) *fiber.App {
	app := fiber.New()
	app.Get("/api/products/:id/countdown", StatusHandler(m))
	app.Get("/api/products/:id/countdown/stream", StreamHandler(ctx, m, 10*time.Millisecond))
	return app
}

func TestStatusHandler(t *testing.T) {
	store := newMapStore()
	store.data[3] = Configuration{Enabled: "yes", EndDate: "2026-10-17", EndTime: "12:00:30"}.Values()
	app := newTestApp(newTestModule(t, store))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/3/countdown", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Active)
	assert.Equal(t, "counting", body.State)
	require.NotNil(t, body.RemainingMs)
	assert.Equal(t, int64(30000), *body.RemainingMs)
	assert.Equal(t, Parts{Seconds: 30}, *body.Parts)
}

func TestStatusHandlerBadID(t *testing.T) {
	app := newTestApp(newTestModule(t, newMapStore()))

	for _, path := range []string{"/api/products/abc/countdown", "/api/products/0/countdown"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestStreamHandlerInactive(t *testing.T) {
	app := newTestApp(newTestModule(t, newMapStore()))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/1/countdown/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStreamHandlerExpired(t *testing.T) {
	store := newMapStore()
	store.data[2] = Configuration{Enabled: "yes", EndDate: "2026-10-17", EndTime: "11:00"}.Values()
	app := newTestApp(newTestModule(t, store))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/2/countdown/stream", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)

	assert.Equal(t, 1, strings.Count(body, "event: "))
	assert.Contains(t, body, "event: expired\n")
	assert.Contains(t, body, `"label":"EXPIRED"`)
}

func TestStreamHandlerCountingUntilShutdown(t *testing.T) {
	store := newMapStore()
	store.data[4] = Configuration{Enabled: "yes", EndDate: "2099-01-01", EndTime: "00:00"}.Values()

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	app := newTestAppCtx(ctx, newTestModule(t, store))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/4/countdown/stream", nil), 2000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)

	assert.GreaterOrEqual(t, strings.Count(body, "event: counting\n"), 2)
	assert.NotContains(t, body, "event: expired")

	// her kare ayrı bir JSON
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		lines := strings.SplitN(block, "\n", 2)
		require.Len(t, lines, 2)
		var s Status
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &s))
		assert.True(t, s.Active)
		require.NotNil(t, s.RemainingMs)
		assert.Positive(t, *s.RemainingMs)
	}
}

func TestStreamHandlerUnparsedDateStopsOnShutdown(t *testing.T) {
	store := newMapStore()
	store.data[5] = Configuration{Enabled: "yes", EndDate: "someday"}.Values()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app := newTestAppCtx(ctx, newTestModule(t, store))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/5/countdown/stream", nil), 2000)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "event: counting\n"))
	assert.Contains(t, string(data), `"valid":false`)
}
