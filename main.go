package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"retail-analytics/config"
	"retail-analytics/database"
	"retail-analytics/routes"
)

var addr = flag.String("addr", "", "address to serve (overrides ADDR)")

func usage() {
	fmt.Println("usage: retail-analytics [options]")
	flag.PrintDefaults()
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	flag.Usage = usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ [CONFIG] %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// Open the data store, falling back to an empty in-memory one
	store, err := database.Open(context.Background(), cfg.DatabaseLocation())
	if err != nil {
		log.Fatalf("❌ [DB] %v", err)
	}
	defer store.Close()

	app := fiber.New(fiber.Config{AppName: "retail-analytics"})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Setup routes
	routes.SetupRoutes(app, store)

	// Start server
	log.Printf("✅ Serving http://%s", cfg.Addr)
	log.Fatal(app.Listen(cfg.Addr))
}
