package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-sync/core/metrics"
	"event-sync/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Upserter reconciles canonical events into the local catalog.
type Upserter struct {
	db     *gorm.DB
	venues *VenueResolver
	images *ImageStore // nil when no object storage is configured
	logger *zap.Logger
}

// NewUpserter creates the reconciliation engine.
func NewUpserter(db *gorm.DB, venues *VenueResolver, images *ImageStore, logger *zap.Logger) *Upserter {
	return &Upserter{db: db, venues: venues, images: images, logger: logger}
}

// Upsert applies one canonical event to the catalog and reports the outcome.
//
// Records without an external id are skipped. An existing record is skipped
// when both change tokens are present and the incoming one is not newer,
// so stale upstream data never clobbers the stored record. A terminal-negative
// status always unpublishes and deactivates, even when the publish policy
// would publish; a live-like status re-activates a previously deactivated
// record. Image enrichment is best-effort and never fails the upsert.
func (u *Upserter) Upsert(ctx context.Context, rec CanonicalEvent, autoPublish bool, siteID uint) (Outcome, error) {
	if rec.ExternalID == "" {
		return OutcomeSkipped, nil
	}

	var existing models.Event
	err := u.db.Where("source = ? AND external_id = ?", string(rec.Source), rec.ExternalID).
		First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeFailed, fmt.Errorf("failed to look up event %s: %w", rec.ExternalID, err)
	}

	// Incoming token not newer than stored: idempotent no-op. This also
	// protects manual backend edits from being overwritten by stale data.
	if found && rec.ChangeToken != nil && existing.ChangedAt != nil &&
		!rec.ChangeToken.After(*existing.ChangedAt) {
		return OutcomeSkipped, nil
	}

	var placeID *uint
	if rec.Venue != nil {
		id, err := u.venues.Resolve(*rec.Venue)
		if err != nil {
			return OutcomeFailed, err
		}
		placeID = &id
	}

	name := rec.Name
	if name == "" {
		name = "Event" // internal only; the website shows venue and time
	}

	publish := autoPublish && rec.Source.IsLiveLike(rec.Status)
	unpublish := rec.Source.IsTerminalNegative(rec.Status)
	now := time.Now().UTC()

	if found {
		existing.Name = name
		existing.DateBegin = rec.StartUTC
		existing.DateEnd = rec.EndUTC
		existing.ExternalURL = rec.ExternalURL
		existing.SourceStatus = rec.Status
		existing.Category = rec.Category
		if rec.Venue != nil {
			existing.VenueName = rec.Venue.Name
		}
		if placeID != nil {
			existing.PlaceID = placeID
		}
		if siteID != 0 {
			existing.SiteID = siteID
		}
		if publish {
			existing.WebsitePublished = true
		}
		if rec.Source.IsLiveLike(rec.Status) {
			// Explicit re-activation: an event cancelled upstream and later
			// rescheduled becomes visible again.
			existing.Active = true
		}
		// Unpublish always wins over publish.
		if unpublish {
			existing.WebsitePublished = false
			existing.Active = false
		}
		existing.ChangedAt = rec.ChangeToken
		existing.LastSyncedAt = &now

		u.attachImage(ctx, &existing, rec)

		if err := u.db.Save(&existing).Error; err != nil {
			return OutcomeFailed, fmt.Errorf("failed to update event %s: %w", rec.ExternalID, err)
		}
		return OutcomeUpdated, nil
	}

	event := models.Event{
		Name:             name,
		DateBegin:        rec.StartUTC,
		DateEnd:          rec.EndUTC,
		ExternalURL:      rec.ExternalURL,
		Source:           string(rec.Source),
		ExternalID:       rec.ExternalID,
		SourceStatus:     rec.Status,
		Category:         rec.Category,
		PlaceID:          placeID,
		SiteID:           siteID,
		WebsitePublished: publish,
		Active:           true,
		ChangedAt:        rec.ChangeToken,
		LastSyncedAt:     &now,
	}
	if rec.Venue != nil {
		event.VenueName = rec.Venue.Name
	}
	if unpublish {
		event.WebsitePublished = false
		event.Active = false
	}

	u.attachImage(ctx, &event, rec)

	if err := u.db.Create(&event).Error; err != nil {
		return OutcomeFailed, fmt.Errorf("failed to create event %s: %w", rec.ExternalID, err)
	}
	return OutcomeCreated, nil
}

// attachImage fetches and stores the event image, writing the object key
// onto the record. Failures are logged and counted, never fatal.
func (u *Upserter) attachImage(ctx context.Context, event *models.Event, rec CanonicalEvent) {
	if rec.ImageURL == "" || u.images == nil {
		return
	}

	key, err := u.images.Fetch(ctx, rec.Source, rec.ExternalID, rec.ImageURL)
	if err != nil {
		metrics.ImageFailures.WithLabelValues(string(rec.Source)).Inc()
		u.logger.Warn("Failed to fetch event image",
			zap.String("external_id", rec.ExternalID),
			zap.Error(err))
		return
	}
	event.ImageObject = key
}
