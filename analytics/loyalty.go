// Package analytics holds the aggregate queries behind the dashboard. Every
// query is read-only and returns a fresh models.Table.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"retail-analytics/database"
	"retail-analytics/models"
)

// LoyaltyOptions shapes the product loyalty query.
type LoyaltyOptions struct {
	// MinSupport is the minimum number of line items a product needs.
	MinSupport int
	// Limit caps the number of products returned.
	Limit         int
	WithProductID bool
	WithAisle     bool
}

var (
	// DashboardLoyalty feeds the general dashboard: more than 100 items, top 100.
	DashboardLoyalty = LoyaltyOptions{MinSupport: 101, Limit: 100}
	// PageLoyalty feeds the /q1 page: at least 50 items, top 20.
	PageLoyalty = LoyaltyOptions{MinSupport: 50, Limit: 20}
	// APILoyalty feeds /api/q1: more than 100 items, top 20, with ids and aisles.
	APILoyalty = LoyaltyOptions{MinSupport: 101, Limit: 20, WithProductID: true, WithAisle: true}
)

// ProductLoyalty ranks products by the share of their line items that were
// reorders, breaking ties by volume.
func ProductLoyalty(ctx context.Context, q database.Querier, opts LoyaltyOptions) (*models.Table, error) {
	selectCols := []string{"p.product_name", "d.department"}
	groupCols := []string{"p.product_name", "d.department"}
	if opts.WithProductID {
		selectCols = append([]string{"p.product_id"}, selectCols...)
		groupCols = append([]string{"p.product_id"}, groupCols...)
	}
	aisleJoin := ""
	if opts.WithAisle {
		selectCols = append(selectCols, "a.aisle")
		groupCols = append(groupCols, "a.aisle")
		aisleJoin = "JOIN dim_aisles a ON a.aisle_id = p.aisle_id"
	}

	query := fmt.Sprintf(`
		SELECT
			%s,
			COUNT(*) AS total_items,
			AVG(CASE WHEN f.reordered = 1 THEN 1.0 ELSE 0.0 END) AS reorder_rate
		FROM fact_order_products f
		JOIN dim_product p    ON f.product_id = p.product_id
		JOIN dim_department d ON p.department_id = d.department_id
		%s
		GROUP BY %s
		HAVING COUNT(*) >= ?
		ORDER BY reorder_rate DESC, total_items DESC
		LIMIT ?
	`, strings.Join(selectCols, ", "), aisleJoin, strings.Join(groupCols, ", "))

	table, err := q.Query(ctx, query, opts.MinSupport, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("product loyalty: %w", err)
	}
	return table, nil
}
