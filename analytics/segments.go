package analytics

import (
	"context"
	"fmt"

	"retail-analytics/database"
	"retail-analytics/models"
)

// Order cadence thresholds, in mean days between orders.
const (
	highFrequencyMaxDays   = 7
	mediumFrequencyMinDays = 8
	mediumFrequencyMaxDays = 20
)

// Basket size thresholds, in mean line items per order.
const (
	smallBasketBelow     = 8
	mediumBasketMaxItems = 15
)

// ClassifyCadence buckets a customer by mean days between orders. Means
// between the high and medium bands fall through to low frequency, exactly
// like the SQL CASE built from the same thresholds.
func ClassifyCadence(avgDays float64) string {
	switch {
	case avgDays <= highFrequencyMaxDays:
		return models.SegmentHighFrequency
	case avgDays >= mediumFrequencyMinDays && avgDays <= mediumFrequencyMaxDays:
		return models.SegmentMediumFrequency
	default:
		return models.SegmentLowFrequency
	}
}

// ClassifyBasket buckets a customer by mean basket size.
func ClassifyBasket(avgItems float64) string {
	switch {
	case avgItems < smallBasketBelow:
		return models.BasketSmall
	case avgItems >= smallBasketBelow && avgItems <= mediumBasketMaxItems:
		return models.BasketMedium
	default:
		return models.BasketLarge
	}
}

func cadenceCase(column string) string {
	return fmt.Sprintf(`CASE
			WHEN %[1]s <= %[2]d THEN '%[5]s'
			WHEN %[1]s BETWEEN %[3]d AND %[4]d THEN '%[6]s'
			ELSE '%[7]s'
		END`,
		column, highFrequencyMaxDays, mediumFrequencyMinDays, mediumFrequencyMaxDays,
		models.SegmentHighFrequency, models.SegmentMediumFrequency, models.SegmentLowFrequency)
}

func basketCase(column string) string {
	return fmt.Sprintf(`CASE
			WHEN %[1]s < %[2]d THEN '%[4]s'
			WHEN %[1]s BETWEEN %[2]d AND %[3]d THEN '%[5]s'
			ELSE '%[6]s'
		END`,
		column, smallBasketBelow, mediumBasketMaxItems,
		models.BasketSmall, models.BasketMedium, models.BasketLarge)
}

// FrequencySegments groups customers by order cadence and reports, per
// segment, the number of customers and their mean reorder rate. The mean
// cadence per segment is added when withAvgDays is set.
func FrequencySegments(ctx context.Context, q database.Querier, withAvgDays bool) (*models.Table, error) {
	avgDaysCol := ""
	if withAvgDays {
		avgDaysCol = ",\n\t\t\tAVG(s.avg_days_between_orders) AS avg_days_between_orders"
	}
	query := fmt.Sprintf(`
		WITH customer_stats AS (
			SELECT user_id,
				AVG(days_since_prior_order) AS avg_days_between_orders,
				COUNT(order_id) AS total_orders
			FROM dim_order
			WHERE days_since_prior_order IS NOT NULL
			GROUP BY user_id
		),
		segments AS (
			SELECT user_id, avg_days_between_orders, total_orders,
				%s AS customer_segment
			FROM customer_stats
		)
		SELECT
			s.customer_segment,
			COUNT(DISTINCT s.user_id) AS num_customers,
			AVG(f.reordered) AS avg_reorder_rate%s
		FROM segments s
		JOIN dim_order o           ON o.user_id = s.user_id
		JOIN fact_order_products f ON f.order_id = o.order_id
		GROUP BY s.customer_segment
		ORDER BY avg_reorder_rate DESC
	`, cadenceCase("avg_days_between_orders"), avgDaysCol)

	table, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("frequency segments: %w", err)
	}
	return table, nil
}

// BasketSegments groups customers by mean basket size and reports line
// items, reorders and reorder rate per segment.
func BasketSegments(ctx context.Context, q database.Querier) (*models.Table, error) {
	query := fmt.Sprintf(`
		WITH order_sizes AS (
			SELECT o.user_id, o.order_id, COUNT(*) AS basket_size
			FROM dim_order o
			JOIN fact_order_products op ON o.order_id = op.order_id
			GROUP BY o.user_id, o.order_id
		),
		user_segments AS (
			SELECT user_id, AVG(basket_size) AS avg_basket
			FROM order_sizes
			GROUP BY user_id
		),
		labelled AS (
			SELECT user_id, %s AS segment
			FROM user_segments
		)
		SELECT
			u.segment,
			COUNT(*) AS total_items,
			SUM(op.reordered) AS total_reorders,
			1.0 * SUM(op.reordered) / NULLIF(COUNT(*), 0) AS reorder_rate
		FROM labelled u
		JOIN dim_order o            ON u.user_id = o.user_id
		JOIN fact_order_products op ON o.order_id = op.order_id
		GROUP BY u.segment
		ORDER BY u.segment
	`, basketCase("avg_basket"))

	table, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("basket segments: %w", err)
	}
	return table, nil
}
