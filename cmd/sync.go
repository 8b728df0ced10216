package cmd

import (
	"context"
	"fmt"

	"event-sync/core/config"
	"event-sync/core/database"
	"event-sync/core/logger"
	"event-sync/core/settings"
	"event-sync/core/storage"
	"event-sync/feature/events"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd is the parent command for one-shot sync passes.
var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Run one sync pass against an upstream ticketing API",
	Long: `Run one full sync pass for a source: fetch events, reconcile them into
the local catalog, and enforce website visibility.

The pass is idempotent; re-running it with unchanged upstream data performs
no writes.

Examples:
  # Sync Eventbrite events
  event-sync sync eventbrite

  # Sync Ticketmaster events
  event-sync sync ticketmaster`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	source, err := catalog.ParseSource(args[0])
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	store := settings.NewStore(db)
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate settings: %w", err)
	}

	// Connect to storage (optional; image enrichment only)
	var storageClient storage.Client
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Optional storage connection failed; event images disabled", zap.Error(err))
	} else {
		storageClient = client
	}

	feature := events.NewFeature(db, store, storageClient, cfg.Storage.Bucket, l)

	l.Info("Starting sync pass", zap.String("source", string(source)))
	summary, err := feature.Syncer().Run(ctx, source)
	if err != nil {
		return err
	}

	fmt.Println(summary.String())
	return nil
}
