package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-analytics/database"
)

// Helper to create an app whose /test route runs behind WithConn
func makeAppWithConn(t *testing.T, store *database.Store, handler fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/test", WithConn(store), handler)
	return app
}

func fallbackStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestWithConn_AttachesConnection(t *testing.T) {
	store := fallbackStore(t)
	app := makeAppWithConn(t, store, func(c *fiber.Ctx) error {
		conn, err := Conn(c)
		if err != nil {
			return err
		}
		table, err := conn.Query(c.UserContext(), "SELECT 1 AS one")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"rows": table.Len(), "fallback": Fallback(c)})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestWithConn_ReleasesConnectionOnEveryPath(t *testing.T) {
	// The fallback store holds a single connection, so a leaked one would
	// block the next request until the test deadline.
	store := fallbackStore(t)
	fail := true
	app := makeAppWithConn(t, store, func(c *fiber.Ctx) error {
		fail = !fail
		if fail {
			return errors.New("handler failed")
		}
		return c.SendString("ok")
	})

	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), 2000)
		require.NoError(t, err, "request %d", i)
		if i%2 == 0 {
			assert.Equal(t, 200, resp.StatusCode)
		} else {
			assert.Equal(t, 500, resp.StatusCode)
		}
	}
}

func TestWithConn_ClosedStoreIsUnavailable(t *testing.T) {
	store, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	app := makeAppWithConn(t, store, func(c *fiber.Ctx) error {
		return c.SendString("unreachable")
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestConn_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		_, err := Conn(c)
		assert.ErrorIs(t, err, ErrNoConn)
		assert.False(t, Fallback(c))
		return c.SendStatus(204)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestFallback_ReportsFallbackStore(t *testing.T) {
	store := fallbackStore(t)
	require.True(t, store.Fallback())

	var seen bool
	app := makeAppWithConn(t, store, func(c *fiber.Ctx) error {
		seen = Fallback(c)
		return c.SendStatus(204)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.True(t, seen)
}
