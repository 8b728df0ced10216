package events

import (
	"event-sync/core/settings"
	"event-sync/core/storage"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the event catalog into the application.
type Feature struct {
	service *Service
	syncer  *sync.Service
	logger  *zap.Logger
	db      *gorm.DB
}

// NewFeature creates the events feature. The storage client may be nil, in
// which case image enrichment is disabled.
func NewFeature(db *gorm.DB, store *settings.Store, client storage.Client, bucket string, logger *zap.Logger) *Feature {
	var images *catalog.ImageStore
	if client != nil {
		images = catalog.NewImageStore(client, bucket, logger)
	}

	venues := catalog.NewVenueResolver(db, logger)
	upserter := catalog.NewUpserter(db, venues, images, logger)
	enforcer := catalog.NewEnforcer(db, logger)
	syncer := sync.NewService(store, upserter, enforcer, logger)

	return &Feature{
		service: NewService(db, logger),
		syncer:  syncer,
		logger:  logger,
		db:      db,
	}
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "events"
}

// IsEnabled reports whether the feature can run. A database is required.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.service, f.syncer, f.logger)
	handler.RegisterRoutes(app)
	return nil
}

// Syncer exposes the sync service for the scheduler and CLI.
func (f *Feature) Syncer() *sync.Service {
	return f.syncer
}
