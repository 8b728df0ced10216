package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a reconciled catalog event. Events arriving from an upstream API
// carry a (Source, ExternalID) pair; manually created events leave both empty.
// Sync never hard-deletes a row: upstream cancellation only unpublishes and
// deactivates it.
type Event struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:512" json:"name"`

	// DateBegin and DateEnd are stored in UTC. Nil when upstream omits them.
	DateBegin *time.Time `json:"date_begin"`
	DateEnd   *time.Time `json:"date_end"`

	// ExternalURL is the upstream registration page; the website CTA links here.
	ExternalURL string `gorm:"size:1024" json:"external_url"`

	// Source and ExternalID identify the upstream record. The pair is the
	// idempotency key; uniqueness is enforced by the upsert lookup rather
	// than a DB constraint so multiple untagged manual events can coexist.
	Source     string `gorm:"size:32;index:idx_events_source_external" json:"source"`
	ExternalID string `gorm:"size:128;index:idx_events_source_external" json:"external_id"`

	// SourceStatus is the raw upstream status code (live, canceled, onsale, ...).
	SourceStatus string `gorm:"size:32" json:"source_status"`

	// Category is "Segment - Genre" for Ticketmaster events, empty otherwise.
	Category string `gorm:"size:128" json:"category"`

	VenueName string `gorm:"size:256" json:"venue_name"`
	PlaceID   *uint  `json:"place_id"`
	Place     *Place `json:"place,omitempty"`

	// SiteID scopes the event to one website. Zero means unscoped.
	SiteID uint `gorm:"index" json:"site_id"`

	// ImageObject is the storage key of the fetched event image, if any.
	ImageObject string `gorm:"size:512" json:"image_object"`

	WebsitePublished bool `gorm:"index" json:"website_published"`
	Active           bool `json:"active"`

	// ChangedAt is the upstream change token recorded at last write.
	ChangedAt    *time.Time `json:"changed_at"`
	LastSyncedAt *time.Time `json:"last_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Place is a venue entity derived from upstream venue data, keyed by name.
// Address fields are overwritten on every sync match (last-write-wins).
type Place struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:256;index" json:"name"`
	Street     string `gorm:"size:256" json:"street"`
	Street2    string `gorm:"size:256" json:"street2"`
	City       string `gorm:"size:128" json:"city"`
	PostalCode string `gorm:"size:32" json:"postal_code"`

	CountryID *uint         `json:"country_id"`
	Country   *Country      `json:"country,omitempty"`
	StateID   *uint         `json:"state_id"`
	State     *CountryState `json:"state,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Country is a reference row for venue country resolution.
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:2;uniqueIndex" json:"code"`
	Name string `gorm:"size:128" json:"name"`
}

// CountryState is a reference row for venue state/province resolution.
type CountryState struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"size:8;index" json:"code"`
	Name      string `gorm:"size:128" json:"name"`
	CountryID *uint  `json:"country_id"`
}

// Migrate creates or updates the event catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Country{}, &CountryState{}, &Place{}, &Event{})
}
