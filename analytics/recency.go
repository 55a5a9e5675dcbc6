package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"retail-analytics/database"
	"retail-analytics/models"
)

// RecencyDistribution summarises days_since_prior_order: the overall mean
// and median plus the mean per day of week and per hour of day. Rows are
// labelled overall, by_dow:<n> or by_hour:<n> and sorted by label.
func RecencyDistribution(ctx context.Context, q database.Querier) (*models.Table, error) {
	table := models.NewTable(
		models.Column{Name: "slice", Type: models.ColumnText},
		models.Column{Name: "avg_days", Type: models.ColumnFloat},
		models.Column{Name: "median_days", Type: models.ColumnFloat},
	)

	overall, err := q.Query(ctx, `
		SELECT COUNT(*) AS n, AVG(days_since_prior_order) AS avg_days
		FROM dim_order
		WHERE days_since_prior_order IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("recency overall: %w", err)
	}
	n := cellInt(overall, 0, "n")
	if n == 0 {
		return table, nil
	}

	median, err := medianDays(ctx, q, n)
	if err != nil {
		return nil, err
	}
	table.Rows = append(table.Rows, []any{models.SliceOverall, cellValue(overall, 0, "avg_days"), median})

	byDOW, err := meanDaysBy(ctx, q, "order_dow")
	if err != nil {
		return nil, err
	}
	byHour, err := meanDaysBy(ctx, q, "order_hour_of_day")
	if err != nil {
		return nil, err
	}
	for i := range byDOW.Rows {
		label := models.SliceByDOWPrefix + strconv.FormatInt(cellInt(byDOW, i, "slice_key"), 10)
		table.Rows = append(table.Rows, []any{label, cellValue(byDOW, i, "avg_days"), nil})
	}
	for i := range byHour.Rows {
		label := models.SliceByHourPrefix + strconv.FormatInt(cellInt(byHour, i, "slice_key"), 10)
		table.Rows = append(table.Rows, []any{label, cellValue(byHour, i, "avg_days"), nil})
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i][0].(string) < table.Rows[j][0].(string)
	})
	return table, nil
}

func meanDaysBy(ctx context.Context, q database.Querier, column string) (*models.Table, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s AS slice_key, AVG(days_since_prior_order) AS avg_days
		FROM dim_order
		WHERE days_since_prior_order IS NOT NULL
		GROUP BY %[1]s
	`, column)
	table, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("recency by %s: %w", column, err)
	}
	return table, nil
}

// medianDays reads the middle one or two values of the n non-null gaps.
func medianDays(ctx context.Context, q database.Querier, n int64) (float64, error) {
	offset, limit := (n-1)/2, int64(1)
	if n%2 == 0 {
		offset, limit = n/2-1, 2
	}
	middle, err := q.Query(ctx, `
		SELECT days_since_prior_order AS days
		FROM dim_order
		WHERE days_since_prior_order IS NOT NULL
		ORDER BY days_since_prior_order
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return 0, fmt.Errorf("recency median: %w", err)
	}
	if middle.Empty() {
		return 0, fmt.Errorf("recency median: no values at offset %d", offset)
	}
	sum := 0.0
	for _, v := range middle.Floats("days") {
		sum += v
	}
	return sum / float64(middle.Len()), nil
}

func cellValue(t *models.Table, row int, column string) any {
	idx := t.Index(column)
	if idx < 0 || row >= t.Len() {
		return nil
	}
	if f, ok := models.CellFloat(t.Rows[row][idx]); ok {
		return f
	}
	return nil
}

func cellInt(t *models.Table, row int, column string) int64 {
	v, ok := cellValue(t, row, column).(float64)
	if !ok {
		return 0
	}
	return int64(v)
}
