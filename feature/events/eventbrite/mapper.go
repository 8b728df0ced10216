package eventbrite

import (
	"errors"
	"time"

	"event-sync/feature/events/catalog"
)

// ErrMissingID rejects raw records without a stable identifier.
var ErrMissingID = errors.New("eventbrite: event has no id")

// localLayout is Eventbrite's zone-less local timestamp format.
const localLayout = "2006-01-02T15:04:05"

// MapEvent converts a raw Eventbrite payload into the canonical shape.
// Records without an id are rejected; everything else maps best-effort.
func MapEvent(raw Event) (catalog.CanonicalEvent, error) {
	if raw.ID == "" {
		return catalog.CanonicalEvent{}, ErrMissingID
	}

	rec := catalog.CanonicalEvent{
		ExternalID:  raw.ID,
		Source:      catalog.SourceEventbrite,
		Status:      raw.Status,
		ExternalURL: raw.URL,
		ChangeToken: changeToken(raw),
	}

	if raw.Name != nil {
		rec.Name = raw.Name.Text
	}

	var startTZ string
	if raw.Start != nil {
		startTZ = raw.Start.Timezone
		rec.StartUTC = toUTC(raw.Start.Local, raw.Start.Timezone)
	}
	if raw.End != nil {
		tz := raw.End.Timezone
		if tz == "" {
			tz = startTZ
		}
		rec.EndUTC = toUTC(raw.End.Local, tz)
	}

	if raw.Venue != nil {
		rec.Venue = &catalog.VenueInfo{
			Name:        raw.Venue.Name,
			Street:      raw.Venue.Address.Address1,
			Street2:     raw.Venue.Address.Address2,
			City:        raw.Venue.Address.City,
			PostalCode:  raw.Venue.Address.PostalCode,
			CountryCode: raw.Venue.Address.Country,
			StateCode:   raw.Venue.Address.Region,
		}
	}

	if raw.Logo != nil {
		rec.ImageURL = raw.Logo.URL
	}

	return rec, nil
}

// toUTC converts a local timestamp + IANA timezone into UTC. A missing
// timezone stores the local time as-is (UTC-naive) rather than rejecting;
// an unparseable timestamp falls back to now, trading a false freshness
// signal for availability.
func toUTC(local, tzName string) *time.Time {
	if local == "" {
		return nil
	}

	if tzName != "" {
		if loc, err := time.LoadLocation(tzName); err == nil {
			if t, err := time.ParseInLocation(localLayout, local, loc); err == nil {
				utc := t.UTC()
				return &utc
			}
		}
	}

	if t, err := time.Parse(localLayout, local); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, local); err == nil {
		utc := t.UTC()
		return &utc
	}

	now := time.Now().UTC()
	return &now
}

// changeToken extracts the freshness marker, preferring the explicit changed
// field, then updated, then created. Unparseable tokens are treated as absent.
func changeToken(raw Event) *time.Time {
	for _, candidate := range []string{raw.Changed, raw.Updated, raw.Created} {
		if candidate == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, candidate); err == nil {
			utc := t.UTC()
			return &utc
		}
		return nil
	}
	return nil
}
