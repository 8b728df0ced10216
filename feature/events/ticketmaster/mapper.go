package ticketmaster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"event-sync/feature/events/catalog"
)

// ErrMissingID rejects raw records without a stable identifier.
var ErrMissingID = errors.New("ticketmaster: event has no id")

// MapEvent converts a raw Ticketmaster payload into the canonical shape.
// Discovery payloads carry no change token, so the canonical record leaves
// it absent and every sync pass rewrites the event.
func MapEvent(raw Event) (catalog.CanonicalEvent, error) {
	if raw.ID == "" {
		return catalog.CanonicalEvent{}, ErrMissingID
	}

	status := raw.Dates.Status.Code
	if status == "" {
		status = "onsale"
	}

	rec := catalog.CanonicalEvent{
		ExternalID:  raw.ID,
		Source:      catalog.SourceTicketmaster,
		Name:        raw.Name,
		Status:      status,
		ExternalURL: raw.URL,
		StartUTC:    parseDate(raw.Dates.Start.DateTime),
		EndUTC:      parseDate(raw.Dates.End.DateTime),
		Category:    category(raw.Classifications),
		ImageURL:    largestImage(raw.Images),
	}

	if raw.Embedded != nil && len(raw.Embedded.Venues) > 0 {
		v := raw.Embedded.Venues[0]
		rec.Venue = &catalog.VenueInfo{
			Name:        v.Name,
			Street:      v.Address.Line1,
			Street2:     v.Address.Line2,
			City:        v.Location.City,
			PostalCode:  v.Location.PostalCode,
			CountryCode: v.Location.CountryCode,
			StateCode:   v.Location.StateCode,
		}
	}

	return rec, nil
}

// parseDate converts an RFC3339 timestamp to UTC. An absent value stays
// absent; an unparseable one falls back to now rather than failing the
// whole record.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		utc := t.UTC()
		return &utc
	}
	now := time.Now().UTC()
	return &now
}

// category builds "Segment - Genre" from the first classification.
func category(classifications []Classification) string {
	if len(classifications) == 0 {
		return ""
	}
	c := classifications[0]
	label := fmt.Sprintf("%s - %s", c.Segment.Name, c.Genre.Name)
	return strings.Trim(label, " -")
}

// largestImage picks the image with the biggest area.
func largestImage(images []Image) string {
	best := ""
	bestArea := -1
	for _, img := range images {
		area := img.Width * img.Height
		if area > bestArea {
			bestArea = area
			best = img.URL
		}
	}
	return best
}
