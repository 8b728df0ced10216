package catalog

import (
	"fmt"
	"time"
)

// Source identifies the upstream ticketing API an event came from.
type Source string

const (
	SourceEventbrite   Source = "eventbrite"
	SourceTicketmaster Source = "ticketmaster"
)

// ParseSource validates a source name from user input.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceEventbrite, SourceTicketmaster:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown source %q", s)
	}
}

// VenueInfo is the source-agnostic venue data extracted by a field mapper.
// Only Name is required; it defaults to "Venue" during resolution.
type VenueInfo struct {
	Name       string
	Street     string
	Street2    string
	City       string
	PostalCode string
	// CountryCode and StateCode are resolved against the reference tables
	// by exact code or name; unresolved codes leave the field unset.
	CountryCode string
	StateCode   string
}

// CanonicalEvent is the normalized, source-agnostic event representation.
// A field mapper produces one per raw upstream record.
type CanonicalEvent struct {
	// ExternalID is the stable, source-unique upstream identifier.
	// (Source, ExternalID) is the idempotency key of the catalog.
	ExternalID string
	Source     Source

	Name string

	// StartUTC and EndUTC are in UTC. Nil when the upstream omits them.
	StartUTC *time.Time
	EndUTC   *time.Time

	// Status is the raw upstream status code; the per-source status policy
	// decides whether it is live-like or terminal-negative.
	Status string

	ExternalURL string
	Category    string

	Venue    *VenueInfo
	ImageURL string

	// ChangeToken is the upstream freshness marker. Nil means the source
	// supplies none (Ticketmaster), in which case every sync writes.
	ChangeToken *time.Time
}

// Outcome tags the result of one upsert. Pass summaries are aggregated from
// these values.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)
