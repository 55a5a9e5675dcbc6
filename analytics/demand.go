package analytics

import (
	"context"
	"fmt"
	"strings"

	"retail-analytics/database"
	"retail-analytics/models"
)

// HeatmapLimit is the number of day × hour cells kept for the heat-map.
const HeatmapLimit = 100

// dayNameCase maps order_dow to its calendar name in SQL.
func dayNameCase(column string) string {
	var b strings.Builder
	b.WriteString("CASE")
	for dow, name := range models.DayNames {
		fmt.Fprintf(&b, " WHEN %s = %d THEN '%s'", column, dow, name)
	}
	b.WriteString(" END")
	return b.String()
}

// DemandByDay counts line items per day of week, Sunday first.
func DemandByDay(ctx context.Context, q database.Querier) (*models.Table, error) {
	query := fmt.Sprintf(`
		SELECT
			o.order_dow AS day_of_week,
			%s AS day_name,
			COUNT(*) AS total_items
		FROM fact_order_products f
		JOIN dim_order o ON f.order_id = o.order_id
		GROUP BY o.order_dow
		ORDER BY o.order_dow
	`, dayNameCase("o.order_dow"))

	table, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("demand by day: %w", err)
	}
	return table, nil
}

// DemandByHour counts line items per hour of day.
func DemandByHour(ctx context.Context, q database.Querier) (*models.Table, error) {
	query := `
		SELECT
			o.order_hour_of_day AS hour_of_day,
			COUNT(*) AS total_items
		FROM fact_order_products f
		JOIN dim_order o ON f.order_id = o.order_id
		GROUP BY o.order_hour_of_day
		ORDER BY o.order_hour_of_day
	`
	table, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("demand by hour: %w", err)
	}
	return table, nil
}

// DemandHeatmap counts orders per day of week and hour of day, keeping the
// busiest limit combinations.
func DemandHeatmap(ctx context.Context, q database.Querier, limit int) (*models.Table, error) {
	query := `
		SELECT order_dow, order_hour_of_day, COUNT(*) AS orders
		FROM dim_order
		GROUP BY order_dow, order_hour_of_day
		ORDER BY orders DESC, order_dow, order_hour_of_day
		LIMIT ?
	`
	table, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("demand heatmap: %w", err)
	}
	return table, nil
}
