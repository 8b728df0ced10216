package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"event-sync/core/config"
	"event-sync/core/database"
	"event-sync/core/loader"
	"event-sync/core/logger"
	"event-sync/core/middleware/auth"
	"event-sync/core/middleware/rayid"
	"event-sync/core/settings"
	"event-sync/core/storage"

	"event-sync/feature/events"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "event-sync/docs/swagger"
)

// @title Event Sync API
// @version 1.0
// @description API for the event catalog sync service.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the event sync server",
	Long:  `Starts the HTTP server, the scheduled sync passes, and the event catalog API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		if err := models.Migrate(db); err != nil {
			logg.Fatal("Database migration failed", zap.Error(err))
		}

		// 4. Settings store (runtime sync settings live in the database)
		store := settings.NewStore(db)
		if err := store.Migrate(); err != nil {
			logg.Fatal("Settings migration failed", zap.Error(err))
		}

		// 5. Initialize Storage (optional; image enrichment only)
		var storageClient storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage connection failed; event images disabled", zap.Error(err))
		} else {
			storageClient = client
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		eventsFeature := events.NewFeature(db, store, storageClient, cfg.Storage.Bucket, logg)
		mgr.Register(eventsFeature)

		// Middleware Registration
		// RayID first, so every request is traceable.
		app.Use(rayid.New())

		// Request logging via Zap + RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints: swagger docs and Prometheus metrics.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// Auth protects the API routes.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Scheduled sync passes. Errors are logged, never surfaced.
		scheduler := cron.New()
		for _, name := range cfg.Sync.SourceList() {
			source, err := catalog.ParseSource(name)
			if err != nil {
				logg.Warn("Skipping unknown sync source", zap.String("source", name))
				continue
			}
			src := source
			if _, err := scheduler.AddFunc(cfg.Sync.Schedule, func() {
				eventsFeature.Syncer().RunScheduled(src)
			}); err != nil {
				logg.Fatal("Invalid sync schedule", zap.String("schedule", cfg.Sync.Schedule), zap.Error(err))
			}
		}
		scheduler.Start()
		defer scheduler.Stop()

		// 9. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("sync_schedule", cfg.Sync.Schedule))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
