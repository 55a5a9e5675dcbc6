// Package handlers serves the dashboard pages, the JSON API and the
// workbook export. Every handler expects middleware.WithConn in front of it.
package handlers

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/models"
	"retail-analytics/utils"
	"retail-analytics/views"
)

// queryFailed logs a failed query and answers with the JSON error body.
func queryFailed(c *fiber.Ctx, tag string, err error) error {
	log.Printf("❌ [%s] query error: %v", tag, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": fmt.Sprintf("Failed to run %s", tag),
	})
}

// render writes an HTML page, or only its content block when the request
// carries a truthy partial parameter.
func render(c *fiber.Ctx, page string, data any) error {
	var buf bytes.Buffer
	if err := views.Render(&buf, page, data, utils.IsTruthy(c.Query("partial"))); err != nil {
		log.Printf("❌ [VIEW] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to render page",
		})
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// withPairLabel adds a "pair" column joining both product names.
func withPairLabel(t *models.Table, sep string) *models.Table {
	a, b := t.Index("product_a"), t.Index("product_b")
	return t.WithColumn(models.Column{Name: "pair", Type: models.ColumnText}, func(row []any) any {
		return models.CellString(row[a]) + sep + models.CellString(row[b])
	})
}
