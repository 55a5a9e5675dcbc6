package analytics

import (
	"context"

	"retail-analytics/database"
	"retail-analytics/models"
)

// Dashboard is the bundle of results behind the general dashboard page.
type Dashboard struct {
	Loyalty      *models.Table
	DemandByDay  *models.Table
	DemandByHour *models.Table
	Pairs        *models.Table
	Segments     *models.Table
}

// GeneralDashboard runs every dashboard query in turn. The first failure
// aborts the bundle.
func GeneralDashboard(ctx context.Context, q database.Querier) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Loyalty, err = ProductLoyalty(ctx, q, DashboardLoyalty); err != nil {
		return nil, err
	}
	if d.DemandByDay, err = DemandByDay(ctx, q); err != nil {
		return nil, err
	}
	if d.DemandByHour, err = DemandByHour(ctx, q); err != nil {
		return nil, err
	}
	if d.Pairs, err = CoPurchasePairs(ctx, q, DashboardPairs); err != nil {
		return nil, err
	}
	if d.Segments, err = FrequencySegments(ctx, q, false); err != nil {
		return nil, err
	}
	return &d, nil
}
