package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"alumnifund/internal/adapters/http/middleware"
	"alumnifund/internal/adapters/http/routes"
	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/config"
	"alumnifund/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	_ "alumnifund/docs" // Swagger docs
)

// @title Alumni Fund API
// @version 1.0
// @description Alumni association membership and finance backend API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@alumnifund.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.alumnifund.org
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Structured logger
	logg := logrus.New()
	if cfg.IsProd() {
		logg.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logg.SetLevel(logrus.DebugLevel)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed bootstrap data
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Wire repositories and services
	svcs := routes.BuildServices(db, cfg, logg)

	// Background jobs: overdue loan sweep, summary reconciliation,
	// expired token cleanup
	cronService := services.NewCronService(
		repositories.NewLoanRepository(db),
		repositories.NewRefreshTokenRepository(db),
		svcs.Approvals,
		svcs.Summaries,
		cfg.Cron,
		logg,
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Alumni Fund API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)
	app.Use(middleware.Metrics())

	// Setup routes
	routes.Setup(app, svcs, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
