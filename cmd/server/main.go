package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/parpalak/admin-yard-sub000/internal/auth"
	"github.com/parpalak/admin-yard-sub000/internal/config"
	"github.com/parpalak/admin-yard-sub000/internal/controller"
	"github.com/parpalak/admin-yard-sub000/internal/form"
	"github.com/parpalak/admin-yard-sub000/internal/provider"
	"github.com/parpalak/admin-yard-sub000/internal/session"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db driver: %s)", cfg.Server.Port, cfg.Database.Driver)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Build the demo schema
	reg, err := demoRegistry()
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	// 4. Bootstrap tables
	if err := provider.EnsureTables(ctx, db, reg); err != nil {
		log.Fatalf("Failed to bootstrap tables: %v", err)
	}
	log.Println("Tables ready")

	// 5. Data provider and form factory
	dataProvider, err := provider.New(db, cfg.Panel.LabelCacheTTLSeconds)
	if err != nil {
		log.Fatalf("Failed to create data provider: %v", err)
	}
	forms := form.NewFactory(reg, dataProvider, cfg.Panel.AutocompleteSecret)
	index := form.BuildAutocompleteIndex(reg, cfg.Panel.AutocompleteSecret)

	// 6. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: controller.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 7. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 8. Sessions and auth
	sessions := session.NewManager()
	app.Use(sessions.Middleware())
	auth.RegisterRoutes(app, cfg.Admin)
	app.Use("/admin", auth.Middleware(cfg.Admin))

	// 9. Panel routes
	renderer, err := newHTMLRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	ctl := controller.New(reg, dataProvider, forms, index, renderer, cfg.Panel.PageSize)
	ctl.RegisterRoutes(app)

	// 10. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
