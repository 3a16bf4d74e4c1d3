package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/middleware"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
	"github.com/fuxconcurseiro/spartajus-backend/backend/routes"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Spreadsheet mirror (optional, best effort)
	m := mirror.NewExporter(cfg.MirrorFile, logger)
	m.Restore(db)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, m)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
