package handlers

import (
	"html"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/middleware"
)

// HandleHealth handles GET /healthz. It round-trips a trivial query on the
// request's connection.
func HandleHealth(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "HEALTH", err)
	}
	if _, err := conn.Query(c.UserContext(), "SELECT 1 AS ok"); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Data store unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"dialect":  string(conn.Dialect()),
		"fallback": middleware.Fallback(c),
	})
}

// HandleVersion handles GET /version with the binary's build information.
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + html.EscapeString(info.String()) + "</pre>\n")
}
