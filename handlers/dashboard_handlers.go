package handlers

import (
	"html/template"
	"log"

	"github.com/gofiber/fiber/v2"

	"retail-analytics/analytics"
	"retail-analytics/charts"
	"retail-analytics/middleware"
	"retail-analytics/models"
	"retail-analytics/views"
)

type dashboardPanel struct {
	key   string
	label string
	table func(d *analytics.Dashboard) *models.Table
	build func(t *models.Table) *charts.Figure
}

var dashboardPanels = []dashboardPanel{
	{
		key:   "q1",
		label: "Q1",
		table: func(d *analytics.Dashboard) *models.Table { return d.Loyalty },
		build: func(t *models.Table) *charts.Figure {
			return charts.HorizontalBar(t.Head(10), "reorder_rate", "product_name", "department",
				"Top 10 products by repeat purchase rate")
		},
	},
	{
		key:   "q2_day",
		label: "Q2 (day)",
		table: func(d *analytics.Dashboard) *models.Table { return d.DemandByDay },
		build: func(t *models.Table) *charts.Figure {
			return charts.Bar(t, "day_name", "total_items", "Ordering activity by day of week")
		},
	},
	{
		key:   "q2_hour",
		label: "Q2 (hour)",
		table: func(d *analytics.Dashboard) *models.Table { return d.DemandByHour },
		build: func(t *models.Table) *charts.Figure {
			return charts.Line(t, "hour_of_day", "total_items", "Ordering activity by hour of day")
		},
	},
	{
		key:   "q3",
		label: "Q3",
		table: func(d *analytics.Dashboard) *models.Table { return d.Pairs },
		build: func(t *models.Table) *charts.Figure {
			return charts.HorizontalBar(withPairLabel(t.Head(20), " + "), "times_bought_together", "pair", "",
				"Top product pairs bought together")
		},
	},
	{
		key:   "q4",
		label: "Q4",
		table: func(d *analytics.Dashboard) *models.Table { return d.Segments },
		build: func(t *models.Table) *charts.Figure {
			return charts.DualAxis(t, "customer_segment",
				"avg_reorder_rate", "Avg reorder rate",
				"num_customers", "Number of customers",
				"Reorder rate and number of customers by segment")
		},
	},
}

// HandleGeneralDashboard handles GET / and GET /general_dashboard.
func HandleGeneralDashboard(c *fiber.Ctx) error {
	conn, err := middleware.Conn(c)
	if err != nil {
		return queryFailed(c, "DASHBOARD", err)
	}

	log.Printf("📊 [DASHBOARD] Building general dashboard")
	d, err := analytics.GeneralDashboard(c.UserContext(), conn)
	if err != nil {
		return queryFailed(c, "DASHBOARD", err)
	}

	plots := make(map[string]template.HTML, len(dashboardPanels))
	for _, p := range dashboardPanels {
		out, err := charts.Render(p.table(d), p.label, p.build)
		if err != nil {
			log.Printf("❌ [DASHBOARD] chart %s: %v", p.key, err)
			out = charts.Warning(p.label)
		}
		plots[p.key] = template.HTML(out)
	}

	return render(c, views.PageDashboard, views.DashboardData{
		Title:    "General dashboard",
		Fallback: middleware.Fallback(c),
		Plots:    plots,
	})
}
