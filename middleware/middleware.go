package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/database"
)

const (
	connKey     = "dbConn"
	fallbackKey = "dbFallback"
)

// ErrNoConn is returned when a handler runs without WithConn in front of it.
var ErrNoConn = errors.New("no database connection for request")

// WithConn acquires a dedicated store connection for the request and
// releases it once the handler chain returns, on every path.
func WithConn(store *database.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conn, err := store.Conn(c.UserContext())
		if err != nil {
			log.Printf("❌ [DB] Failed to acquire connection for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Data store unavailable",
			})
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Printf("⚠️  [DB] Failed to release connection for %s: %v", c.Path(), err)
			}
		}()

		c.Locals(connKey, conn)
		c.Locals(fallbackKey, store.Fallback())
		return c.Next()
	}
}

// Conn returns the connection WithConn attached to the request.
func Conn(c *fiber.Ctx) (*database.Conn, error) {
	conn, ok := c.Locals(connKey).(*database.Conn)
	if !ok || conn == nil {
		return nil, ErrNoConn
	}
	return conn, nil
}

// Fallback reports whether the request is served from the empty in-memory
// store.
func Fallback(c *fiber.Ctx) bool {
	fallback, _ := c.Locals(fallbackKey).(bool)
	return fallback
}
