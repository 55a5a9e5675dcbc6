package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"retail-analytics/database"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *database.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := database.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{t: t, ctx: ctx, store: store}
	f.exec("INSERT INTO dim_department (department_id, department) VALUES (1, 'produce'), (2, 'dairy eggs')")
	f.exec("INSERT INTO dim_aisles (aisle_id, aisle) VALUES (1, 'fresh fruits'), (2, 'milk')")
	return f
}

func (f *fixture) exec(query string, args ...any) {
	f.t.Helper()
	require.NoError(f.t, f.store.Exec(f.ctx, query, args...))
}

func (f *fixture) product(id int, name string, aisleID, departmentID int) {
	f.exec("INSERT INTO dim_product (product_id, product_name, aisle_id, department_id) VALUES (?, ?, ?, ?)",
		id, name, aisleID, departmentID)
}

// order inserts an order; days < 0 stores NULL for a first order.
func (f *fixture) order(id, userID, number, dow, hour int, days float64) {
	var gap any
	if days >= 0 {
		gap = days
	}
	f.exec(`INSERT INTO dim_order (order_id, user_id, order_number, order_dow, order_hour_of_day, days_since_prior_order)
		VALUES (?, ?, ?, ?, ?, ?)`, id, userID, number, dow, hour, gap)
}

func (f *fixture) item(orderID, productID, reordered int) {
	f.exec("INSERT INTO fact_order_products (order_id, product_id, reordered) VALUES (?, ?, ?)",
		orderID, productID, reordered)
}

// conn returns a request-scoped connection closed at test end.
func (f *fixture) conn() *database.Conn {
	f.t.Helper()
	c, err := f.store.Conn(f.ctx)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { c.Close() })
	return c
}

// seedCustomers builds four returning customers with mean gaps of 7, 8, 20
// and 20.1 days plus one first-time customer with a 16-item basket.
//
//	order  user  dow hour days   items (reordered)
//	11     1     3   8    null   1 (1)
//	12     1     0   9    7      1 (1)
//	21     2     3   8    null   1 (0)
//	22     2     0   10   8      1 (1)
//	31     3     3   8    null   1 (1)
//	32     3     1   9    20     1 (0)
//	41     4     3   8    null   1 (0)
//	42     4     1   10   20.1   1 (0)
//	51     5     3   8    null   16 (0)
//
// Users 1-4 average one item per order (small basket): 8 items, 4
// reorders (orders 11, 12, 22, 31). User 5 is large: 16 items, 0 reorders.
func (f *fixture) seedCustomers() {
	f.product(1, "Banana", 1, 1)

	type row struct {
		order, user, number, dow, hour int
		days                           float64
		reordered                      []int
	}
	rows := []row{
		{11, 1, 1, 3, 8, -1, []int{1}},
		{12, 1, 2, 0, 9, 7, []int{1}},
		{21, 2, 1, 3, 8, -1, []int{0}},
		{22, 2, 2, 0, 10, 8, []int{1}},
		{31, 3, 1, 3, 8, -1, []int{1}},
		{32, 3, 2, 1, 9, 20, []int{0}},
		{41, 4, 1, 3, 8, -1, []int{0}},
		{42, 4, 2, 1, 10, 20.1, []int{0}},
		{51, 5, 1, 3, 8, -1, make([]int, 16)},
	}
	for _, r := range rows {
		f.order(r.order, r.user, r.number, r.dow, r.hour, r.days)
		for _, re := range r.reordered {
			f.item(r.order, 1, re)
		}
	}
}
