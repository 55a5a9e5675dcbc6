package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"

	"retail-analytics/database"
)

var departments = []string{
	"produce", "dairy eggs", "bakery", "beverages", "snacks", "frozen", "pantry", "household",
}

var aisles = []struct {
	name       string
	department int
}{
	{"fresh fruits", 1}, {"fresh vegetables", 1}, {"packaged cheese", 2}, {"milk", 2},
	{"yogurt", 2}, {"bread", 3}, {"water seltzer sparkling water", 4}, {"coffee", 4},
	{"chips pretzels", 5}, {"frozen meals", 6}, {"canned goods", 7}, {"paper goods", 8},
}

var productStems = []string{
	"Banana", "Strawberries", "Baby Spinach", "Avocado", "Whole Milk", "Greek Yogurt",
	"Cheddar", "Sourdough", "Sparkling Water", "Cold Brew", "Tortilla Chips", "Pizza",
	"Black Beans", "Paper Towels", "Lemons", "Blueberries", "Eggs", "Bagels",
}

// Options shapes a generated dataset.
type Options struct {
	Users    int
	Products int
	// MaxOrders caps orders per user; every user places at least two.
	MaxOrders int
	Seed      uint64
}

// Counts reports how many rows were written per table.
type Counts struct {
	Products int
	Orders   int
	Items    int
}

// Generate writes a deterministic dataset into store. progress is called
// once per finished user.
func Generate(ctx context.Context, store *database.Store, opts Options, progress func()) (Counts, error) {
	var counts Counts
	if opts.Users <= 0 || opts.Products <= 0 {
		return counts, fmt.Errorf("users and products must be positive")
	}
	if opts.MaxOrders < 2 {
		opts.MaxOrders = 2
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	err := store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertDimensions(ctx, tx, opts.Products, rng); err != nil {
			return err
		}
		counts.Products = opts.Products

		orderStmt, err := tx.PrepareContext(ctx, `INSERT INTO dim_order
			(order_id, user_id, order_number, order_dow, order_hour_of_day, days_since_prior_order)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare orders: %w", err)
		}
		defer orderStmt.Close()
		itemStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO fact_order_products (order_id, product_id, reordered) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare items: %w", err)
		}
		defer itemStmt.Close()

		orderID := 0
		for user := 1; user <= opts.Users; user++ {
			bought := map[int]bool{}
			// each user has a habitual cadence and basket size
			cadence := 2 + rng.IntN(28)
			basket := 2 + rng.IntN(20)
			orders := 2 + rng.IntN(opts.MaxOrders-1)
			for number := 1; number <= orders; number++ {
				orderID++
				var days any
				if number > 1 {
					days = float64(clamp(cadence+rng.IntN(7)-3, 0, 30))
				}
				hour := clamp(int(rng.NormFloat64()*3.5)+13, 0, 23)
				if _, err := orderStmt.ExecContext(ctx, orderID, user, number, rng.IntN(7), hour, days); err != nil {
					return fmt.Errorf("insert order %d: %w", orderID, err)
				}
				counts.Orders++

				size := clamp(basket+rng.IntN(5)-2, 1, opts.Products)
				inOrder := map[int]bool{}
				for len(inOrder) < size {
					// squaring skews picks towards low ids, which act as staples
					product := 1 + int(float64(opts.Products)*rng.Float64()*rng.Float64())
					if product > opts.Products || inOrder[product] {
						continue
					}
					inOrder[product] = true
					reordered := 0
					if bought[product] {
						reordered = 1
					}
					bought[product] = true
					if _, err := itemStmt.ExecContext(ctx, orderID, product, reordered); err != nil {
						return fmt.Errorf("insert item for order %d: %w", orderID, err)
					}
					counts.Items++
				}
			}
			if progress != nil {
				progress()
			}
		}
		return nil
	})
	return counts, err
}

func insertDimensions(ctx context.Context, tx *sql.Tx, products int, rng *rand.Rand) error {
	for i, name := range departments {
		if _, err := tx.ExecContext(ctx, "INSERT INTO dim_department (department_id, department) VALUES (?, ?)", i+1, name); err != nil {
			return fmt.Errorf("insert department %s: %w", name, err)
		}
	}
	for i, a := range aisles {
		if _, err := tx.ExecContext(ctx, "INSERT INTO dim_aisles (aisle_id, aisle) VALUES (?, ?)", i+1, a.name); err != nil {
			return fmt.Errorf("insert aisle %s: %w", a.name, err)
		}
	}
	for id := 1; id <= products; id++ {
		stem := productStems[(id-1)%len(productStems)]
		name := stem
		if id > len(productStems) {
			name = fmt.Sprintf("%s #%d", stem, (id-1)/len(productStems)+1)
		}
		aisle := rng.IntN(len(aisles))
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO dim_product (product_id, product_name, aisle_id, department_id) VALUES (?, ?, ?, ?)",
			id, name, aisle+1, aisles[aisle].department); err != nil {
			return fmt.Errorf("insert product %d: %w", id, err)
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
