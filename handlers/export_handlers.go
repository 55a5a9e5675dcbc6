package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/middleware"
	"retail-analytics/utils"
)

const workbookSuffix = ".xlsx"

// HandleExport handles GET /export/:file, where file is q1.xlsx .. q5.xlsx.
// The workbook holds the same table the matching page shows.
func HandleExport(c *fiber.Ctx) error {
	file := c.Params("file")
	id := strings.TrimSuffix(file, workbookSuffix)
	page, ok := queryPages[id]
	if !ok || id == file {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Unknown export %q", file),
		})
	}
	tag := strings.ToUpper(id)

	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, tag, err)
	}

	log.Printf("📊 [%s] Exporting workbook", tag)
	table, err := page.run(c.UserContext(), conn)
	if err != nil {
		return queryFailed(c, tag, err)
	}

	buf, err := utils.TableWorkbook(table, id)
	if err != nil {
		log.Printf("❌ [%s] export error: %v", tag, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build workbook",
		})
	}

	c.Set(fiber.HeaderContentType, utils.WorkbookContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file))
	return c.Send(buf.Bytes())
}
