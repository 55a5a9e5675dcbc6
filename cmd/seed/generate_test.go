package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-analytics/analytics"
	"retail-analytics/database"
	"retail-analytics/models"
)

func generate(t *testing.T, opts Options) (*database.Store, Counts) {
	t.Helper()
	ctx := context.Background()
	store, err := database.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	calls := 0
	counts, err := Generate(ctx, store, opts, func() { calls++ })
	require.NoError(t, err)
	assert.Equal(t, opts.Users, calls)
	return store, counts
}

func scalar(t *testing.T, store *database.Store, query string) any {
	t.Helper()
	table, err := store.Query(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	return table.Rows[0][0]
}

func TestGenerate_IsDeterministic(t *testing.T) {
	opts := Options{Users: 40, Products: 30, MaxOrders: 6, Seed: 7}
	_, first := generate(t, opts)
	_, second := generate(t, opts)
	assert.Equal(t, first, second)
	assert.Equal(t, 30, first.Products)
	assert.GreaterOrEqual(t, first.Orders, 80)
}

func TestGenerate_RowShape(t *testing.T) {
	store, counts := generate(t, Options{Users: 25, Products: 20, MaxOrders: 5, Seed: 1})

	assert.EqualValues(t, counts.Orders, scalar(t, store, "SELECT COUNT(*) FROM dim_order"))
	assert.EqualValues(t, counts.Items, scalar(t, store, "SELECT COUNT(*) FROM fact_order_products"))

	// first orders have no prior gap and nothing in them is a reorder
	assert.EqualValues(t, 0, scalar(t, store,
		"SELECT COUNT(*) FROM dim_order WHERE order_number = 1 AND days_since_prior_order IS NOT NULL"))
	assert.EqualValues(t, 0, scalar(t, store, `SELECT COALESCE(SUM(f.reordered), 0)
		FROM fact_order_products f JOIN dim_order o ON o.order_id = f.order_id
		WHERE o.order_number = 1`))
	assert.EqualValues(t, 0, scalar(t, store,
		"SELECT COUNT(*) FROM dim_order WHERE order_hour_of_day NOT BETWEEN 0 AND 23 OR order_dow NOT BETWEEN 0 AND 6"))
}

func TestGenerate_FeedsDashboard(t *testing.T) {
	store, _ := generate(t, Options{Users: 60, Products: 25, MaxOrders: 8, Seed: 3})
	ctx := context.Background()
	conn, err := store.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	d, err := analytics.GeneralDashboard(ctx, conn)
	require.NoError(t, err)
	assert.False(t, d.Loyalty.Empty())
	assert.Equal(t, 7, d.DemandByDay.Len())
	assert.False(t, d.Pairs.Empty())
	assert.False(t, d.Segments.Empty())
}

func TestGenerate_RejectsEmptyDataset(t *testing.T) {
	store, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	defer store.Close()

	_, err = Generate(context.Background(), store, Options{Users: 0, Products: 10}, nil)
	assert.Error(t, err)
}

func TestGenerate_WritesSQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seeded.db")
	store, err := database.CreateFile(ctx, path)
	require.NoError(t, err)
	_, err = Generate(ctx, store, Options{Users: 10, Products: 10, MaxOrders: 3, Seed: 9}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := database.Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.False(t, reopened.Fallback())

	table, err := reopened.Query(ctx, "SELECT COUNT(*) AS n FROM dim_product")
	require.NoError(t, err)
	n, ok := models.CellFloat(table.Rows[0][0])
	require.True(t, ok)
	assert.Equal(t, float64(10), n)
}
