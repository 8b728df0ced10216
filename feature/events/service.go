package events

import (
	"context"

	"event-sync/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes read access to the event catalog for the website.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new events service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ListPublished returns the published, active events ordered by start time,
// optionally scoped to one site. These are the events the website displays.
func (s *Service) ListPublished(ctx context.Context, siteID uint) ([]models.Event, error) {
	query := s.db.WithContext(ctx).
		Where("website_published = ? AND active = ?", true, true).
		Preload("Place").
		Order("date_begin ASC")
	if siteID != 0 {
		query = query.Where("site_id = ?", siteID)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
