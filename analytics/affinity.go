package analytics

import (
	"context"
	"fmt"

	"retail-analytics/database"
	"retail-analytics/models"
)

const (
	// PairCandidates is how many of the highest-volume products are paired.
	PairCandidates = 100
	// DashboardPairs and PagePairs cap the number of pairs shown.
	DashboardPairs = 20
	PagePairs      = 50
)

// CoPurchasePairs counts, for every unordered pair of top-volume products,
// the distinct orders containing both. Each pair appears once, with the
// lower product id on the left.
func CoPurchasePairs(ctx context.Context, q database.Querier, limit int) (*models.Table, error) {
	query := `
		WITH top_products AS (
			SELECT product_id, COUNT(*) AS total_items
			FROM fact_order_products
			GROUP BY product_id
			ORDER BY total_items DESC, product_id
			LIMIT ?
		),
		filtered AS (
			SELECT f.order_id, f.product_id
			FROM fact_order_products f
			JOIN top_products t ON t.product_id = f.product_id
		)
		SELECT
			p1.product_name AS product_a,
			p2.product_name AS product_b,
			COUNT(DISTINCT f1.order_id) AS times_bought_together
		FROM filtered f1
		JOIN filtered f2
			ON f1.order_id = f2.order_id
			AND f1.product_id < f2.product_id
		JOIN dim_product p1 ON f1.product_id = p1.product_id
		JOIN dim_product p2 ON f2.product_id = p2.product_id
		GROUP BY p1.product_id, p2.product_id, p1.product_name, p2.product_name
		ORDER BY times_bought_together DESC, product_a, product_b
		LIMIT ?
	`
	table, err := q.Query(ctx, query, PairCandidates, limit)
	if err != nil {
		return nil, fmt.Errorf("co-purchase pairs: %w", err)
	}
	return table, nil
}
