// Command seed writes a synthetic order dataset into a SQLite file so the
// dashboard can be run without the real export.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"retail-analytics/config"
	"retail-analytics/database"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	out := flag.String("out", config.DefaultDatabasePath(), "SQLite file to write")
	users := flag.Int("users", 2000, "number of customers")
	products := flag.Int("products", 300, "number of products")
	maxOrders := flag.Int("max-orders", 25, "maximum orders per customer")
	seed := flag.Uint64("seed", 42, "random seed")
	force := flag.Bool("force", false, "replace an existing file")
	flag.Parse()

	if _, err := os.Stat(*out); err == nil {
		if !*force {
			log.Fatalf("❌ [SEED] %s already exists, use -force to replace it", *out)
		}
		if err := os.Remove(*out); err != nil {
			log.Fatalf("❌ [SEED] remove %s: %v", *out, err)
		}
	}

	ctx := context.Background()
	store, err := database.CreateFile(ctx, *out)
	if err != nil {
		log.Fatalf("❌ [SEED] %v", err)
	}
	defer store.Close()

	bar := progressbar.Default(int64(*users), "customers")
	counts, err := Generate(ctx, store, Options{
		Users:     *users,
		Products:  *products,
		MaxOrders: *maxOrders,
		Seed:      *seed,
	}, func() { _ = bar.Add(1) })
	if err != nil {
		log.Fatalf("❌ [SEED] %v", err)
	}
	_ = bar.Finish()

	log.Printf("✅ [SEED] wrote %d products, %d orders, %d line items to %s",
		counts.Products, counts.Orders, counts.Items, *out)
}
