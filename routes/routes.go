package routes

import (
	"github.com/gofiber/fiber/v2"

	"retail-analytics/database"
	"retail-analytics/handlers"
	"retail-analytics/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, store *database.Store) {
	app.Get("/version", handlers.HandleVersion)

	withConn := middleware.WithConn(store)

	// --- Dashboard ---
	app.Get("/", withConn, handlers.HandleGeneralDashboard)
	app.Get("/general_dashboard", withConn, handlers.HandleGeneralDashboard)

	// --- Query pages ---
	app.Get("/q1", withConn, handlers.HandleQ1Page)
	app.Get("/q2", withConn, handlers.HandleQ2Page)
	app.Get("/q3", withConn, handlers.HandleQ3Page)
	app.Get("/q4", withConn, handlers.HandleQ4Page)
	app.Get("/q5", withConn, handlers.HandleQ5Page)

	// --- JSON API ---
	api := app.Group("/api", withConn)
	api.Get("/q1", handlers.HandleAPIQ1)
	api.Get("/q2", handlers.HandleAPIQ2)
	api.Get("/q3", handlers.HandleAPIQ3)
	api.Get("/q4", handlers.HandleAPIQ4)
	api.Get("/q5", handlers.HandleAPIQ5)

	// --- Export & health ---
	app.Get("/export/:file", withConn, handlers.HandleExport)
	app.Get("/healthz", withConn, handlers.HandleHealth)
}
