package eventbrite_test

import (
	"testing"
	"time"

	"event-sync/feature/events/catalog"
	"event-sync/feature/events/eventbrite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEventFull(t *testing.T) {
	raw := eventbrite.Event{
		ID:     "123456789",
		Name:   &eventbrite.MultipartText{Text: "Jazz Night", HTML: "<b>Jazz Night</b>"},
		Status: "live",
		URL:    "https://www.eventbrite.com/e/123456789",
		Start: &eventbrite.DateTime{
			Timezone: "America/New_York",
			Local:    "2025-09-05T19:30:00",
		},
		End: &eventbrite.DateTime{
			Local: "2025-09-05T22:00:00",
		},
		Venue: &eventbrite.Venue{
			Name: "Blue Note",
			Address: eventbrite.Address{
				Address1:   "131 W 3rd St",
				City:       "New York",
				PostalCode: "10012",
				Region:     "NY",
				Country:    "US",
			},
		},
		Logo:    &eventbrite.Logo{URL: "https://img.evbuc.com/logo.png"},
		Changed: "2025-08-20T14:00:00Z",
	}

	rec, err := eventbrite.MapEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, "123456789", rec.ExternalID)
	assert.Equal(t, catalog.SourceEventbrite, rec.Source)
	assert.Equal(t, "Jazz Night", rec.Name)
	assert.Equal(t, "live", rec.Status)

	// 19:30 New York local in September (EDT, UTC-4) is 23:30 UTC.
	require.NotNil(t, rec.StartUTC)
	assert.Equal(t, time.Date(2025, 9, 5, 23, 30, 0, 0, time.UTC), *rec.StartUTC)

	// End time inherits the start timezone when its own is missing.
	require.NotNil(t, rec.EndUTC)
	assert.Equal(t, time.Date(2025, 9, 6, 2, 0, 0, 0, time.UTC), *rec.EndUTC)

	require.NotNil(t, rec.Venue)
	assert.Equal(t, "Blue Note", rec.Venue.Name)
	assert.Equal(t, "NY", rec.Venue.StateCode)
	assert.Equal(t, "US", rec.Venue.CountryCode)

	assert.Equal(t, "https://img.evbuc.com/logo.png", rec.ImageURL)

	require.NotNil(t, rec.ChangeToken)
	assert.Equal(t, time.Date(2025, 8, 20, 14, 0, 0, 0, time.UTC), *rec.ChangeToken)
}

func TestMapEventMissingID(t *testing.T) {
	_, err := eventbrite.MapEvent(eventbrite.Event{Status: "live"})
	assert.ErrorIs(t, err, eventbrite.ErrMissingID)
}

func TestMapEventMinimal(t *testing.T) {
	rec, err := eventbrite.MapEvent(eventbrite.Event{ID: "42"})
	require.NoError(t, err)

	assert.Equal(t, "42", rec.ExternalID)
	assert.Empty(t, rec.Name)
	assert.Nil(t, rec.StartUTC)
	assert.Nil(t, rec.EndUTC)
	assert.Nil(t, rec.Venue)
	assert.Nil(t, rec.ChangeToken)
}

func TestMapEventNaiveTimestampKeptAsIs(t *testing.T) {
	raw := eventbrite.Event{
		ID:    "43",
		Start: &eventbrite.DateTime{Local: "2025-10-01T18:00:00"},
	}

	rec, err := eventbrite.MapEvent(raw)
	require.NoError(t, err)
	require.NotNil(t, rec.StartUTC)
	assert.Equal(t, time.Date(2025, 10, 1, 18, 0, 0, 0, time.UTC), rec.StartUTC.UTC())
}

func TestMapEventChangeTokenPreference(t *testing.T) {
	raw := eventbrite.Event{
		ID:      "44",
		Changed: "2025-08-03T00:00:00Z",
		Updated: "2025-08-02T00:00:00Z",
		Created: "2025-08-01T00:00:00Z",
	}
	rec, err := eventbrite.MapEvent(raw)
	require.NoError(t, err)
	require.NotNil(t, rec.ChangeToken)
	assert.Equal(t, time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC), *rec.ChangeToken)

	// Falls through to updated, then created.
	raw.Changed = ""
	rec, err = eventbrite.MapEvent(raw)
	require.NoError(t, err)
	require.NotNil(t, rec.ChangeToken)
	assert.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), *rec.ChangeToken)

	// Unparseable token is treated as absent.
	raw.Changed = "not-a-timestamp"
	rec, err = eventbrite.MapEvent(raw)
	require.NoError(t, err)
	assert.Nil(t, rec.ChangeToken)
}
