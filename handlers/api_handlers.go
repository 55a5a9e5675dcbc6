package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/analytics"
	"retail-analytics/middleware"
	"retail-analytics/models"
)

// tableJSON is the columns/records body shared by the API endpoints.
func tableJSON(t *models.Table, nullValue any) fiber.Map {
	return fiber.Map{
		"columns": t.ColumnNames(),
		"records": t.Records(nullValue),
	}
}

// HandleAPIQ1 handles GET /api/q1.
func HandleAPIQ1(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "Q1", err)
	}
	log.Printf("📊 [Q1] API request")
	table, err := analytics.ProductLoyalty(c.UserContext(), conn, analytics.APILoyalty)
	if err != nil {
		return queryFailed(c, "Q1", err)
	}
	return c.JSON(tableJSON(table, ""))
}

// HandleAPIQ2 handles GET /api/q2. Day and hour aggregates are returned
// side by side.
func HandleAPIQ2(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "Q2", err)
	}
	log.Printf("📊 [Q2] API request")
	ctx := c.UserContext()
	byDay, err := analytics.DemandByDay(ctx, conn)
	if err != nil {
		return queryFailed(c, "Q2", err)
	}
	byHour, err := analytics.DemandByHour(ctx, conn)
	if err != nil {
		return queryFailed(c, "Q2", err)
	}
	return c.JSON(fiber.Map{
		"day_columns":  byDay.ColumnNames(),
		"day_records":  byDay.Records(0),
		"hour_columns": byHour.ColumnNames(),
		"hour_records": byHour.Records(0),
	})
}

// HandleAPIQ3 handles GET /api/q3.
func HandleAPIQ3(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "Q3", err)
	}
	log.Printf("📊 [Q3] API request")
	table, err := analytics.CoPurchasePairs(c.UserContext(), conn, analytics.DashboardPairs)
	if err != nil {
		return queryFailed(c, "Q3", err)
	}
	return c.JSON(tableJSON(table, ""))
}

// HandleAPIQ4 handles GET /api/q4.
func HandleAPIQ4(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "Q4", err)
	}
	log.Printf("📊 [Q4] API request")
	table, err := analytics.FrequencySegments(c.UserContext(), conn, true)
	if err != nil {
		return queryFailed(c, "Q4", err)
	}
	return c.JSON(tableJSON(table, 0))
}

// HandleAPIQ5 handles GET /api/q5.
func HandleAPIQ5(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "Q5", err)
	}
	log.Printf("📊 [Q5] API request")
	table, err := analytics.RecencyDistribution(c.UserContext(), conn)
	if err != nil {
		return queryFailed(c, "Q5", err)
	}
	return c.JSON(tableJSON(table, ""))
}
