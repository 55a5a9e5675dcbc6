package handlers

import (
	"context"
	"html/template"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/analytics"
	"retail-analytics/charts"
	"retail-analytics/database"
	"retail-analytics/middleware"
	"retail-analytics/models"
	"retail-analytics/utils"
	"retail-analytics/views"
)

// EmptyPageMessage fills the table slot of a query page with no rows.
const EmptyPageMessage = "No data found. Load the database first."

// queryPage describes one /qN page. chart is nil for table-only pages.
type queryPage struct {
	title    string
	question string
	run      func(ctx context.Context, q database.Querier) (*models.Table, error)
	chart    func(t *models.Table) *charts.Figure
}

var queryPages = map[string]queryPage{
	"q1": {
		title:    "Customer loyalty and product performance",
		question: "Which products and departments show the highest rates of repeat purchases?",
		run: func(ctx context.Context, q database.Querier) (*models.Table, error) {
			return analytics.ProductLoyalty(ctx, q, analytics.PageLoyalty)
		},
		chart: func(t *models.Table) *charts.Figure {
			return charts.HorizontalBar(t.Head(15), "reorder_rate", "product_name", "", "Top products by reorder rate")
		},
	},
	"q2": {
		title:    "Demand over time",
		question: "When during the week and the day do customers place orders?",
		run: func(ctx context.Context, q database.Querier) (*models.Table, error) {
			return analytics.DemandHeatmap(ctx, q, analytics.HeatmapLimit)
		},
		chart: func(t *models.Table) *charts.Figure {
			return charts.DensityHeatmap(t, "order_hour_of_day", "order_dow", "orders", 24, 7,
				"Orders: hour of day vs day of week")
		},
	},
	"q3": {
		title:    "Products bought together",
		question: "Which products are most often purchased in the same order?",
		run: func(ctx context.Context, q database.Querier) (*models.Table, error) {
			return analytics.CoPurchasePairs(ctx, q, analytics.PagePairs)
		},
		chart: func(t *models.Table) *charts.Figure {
			fig := charts.Bar(withPairLabel(t.Head(20), " | "), "pair", "times_bought_together",
				"Top co-purchased product pairs")
			if xaxis, ok := fig.Layout["xaxis"].(map[string]any); ok {
				xaxis["tickangle"] = 45
			}
			return fig
		},
	},
	"q4": {
		title:    "Customer segments and repurchase behavior",
		question: "How does basket size relate to how often customers reorder?",
		run:      analytics.BasketSegments,
		chart: func(t *models.Table) *charts.Figure {
			return charts.Bar(t, "segment", "reorder_rate", "Reorder rate by customer segment")
		},
	},
	"q5": {
		title:    "Order recency",
		question: "How many days pass between a customer's orders?",
		run:      analytics.RecencyDistribution,
	},
}

// HandleQ1Page handles GET /q1.
func HandleQ1Page(c *fiber.Ctx) error { return renderQueryPage(c, "q1") }

// HandleQ2Page handles GET /q2.
func HandleQ2Page(c *fiber.Ctx) error { return renderQueryPage(c, "q2") }

// HandleQ3Page handles GET /q3.
func HandleQ3Page(c *fiber.Ctx) error { return renderQueryPage(c, "q3") }

// HandleQ4Page handles GET /q4.
func HandleQ4Page(c *fiber.Ctx) error { return renderQueryPage(c, "q4") }

// HandleQ5Page handles GET /q5.
func HandleQ5Page(c *fiber.Ctx) error { return renderQueryPage(c, "q5") }

func renderQueryPage(c *fiber.Ctx, id string) error {
	page := queryPages[id]
	tag := strings.ToUpper(id)

	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, tag, err)
	}

	log.Printf("📊 [%s] Rendering page", tag)
	table, err := page.run(c.UserContext(), conn)
	if err != nil {
		return queryFailed(c, tag, err)
	}

	data := views.QueryData{
		Title:    page.title,
		Question: page.question,
		Query:    id,
		Fallback: middleware.Fallback(c),
	}
	if table.Empty() {
		data.Table = EmptyPageMessage
		return render(c, views.PageQuery, data)
	}

	data.Table = template.HTML(utils.TableHTML(table))
	if page.chart != nil {
		plot, err := page.chart(table).HTML()
		if err != nil {
			log.Printf("⚠️  [%s] chart: %v", tag, err)
		} else {
			data.Plot = template.HTML(plot)
		}
	}
	return render(c, views.PageQuery, data)
}
