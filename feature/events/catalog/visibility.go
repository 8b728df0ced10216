package catalog

import (
	"fmt"

	"event-sync/core/metrics"
	"event-sync/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// enforcementBatchLimit bounds one enforcement run. Events beyond the limit
// are left for the next run so a huge backlog cannot stall a sync pass.
const enforcementBatchLimit = 1000

// Enforcer hides published events that were never touched by a sync pass,
// so the website only shows API-sourced content.
type Enforcer struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEnforcer creates a visibility enforcer.
func NewEnforcer(db *gorm.DB, logger *zap.Logger) *Enforcer {
	return &Enforcer{db: db, logger: logger}
}

// Enforce unpublishes published events lacking a source tag, optionally
// scoped to one site. Events stay active so they remain editable in the
// back office. It returns the number of events unpublished.
func (e *Enforcer) Enforce(siteID uint) (int, error) {
	query := e.db.Model(&models.Event{}).
		Where("website_published = ? AND (external_id = '' OR external_id IS NULL)", true)
	if siteID != 0 {
		query = query.Where("site_id = ?", siteID)
	}

	var ids []uint
	if err := query.Limit(enforcementBatchLimit).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to find unsourced published events: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err := e.db.Model(&models.Event{}).
		Where("id IN ?", ids).
		Update("website_published", false).Error
	if err != nil {
		return 0, fmt.Errorf("failed to unpublish events: %w", err)
	}

	metrics.Unpublished.Add(float64(len(ids)))
	e.logger.Info("Unpublished events without a source tag", zap.Int("count", len(ids)))
	return len(ids), nil
}
