package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-sync/core/database"
	"event-sync/core/settings"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/eventbrite"
	"event-sync/feature/events/models"
	"event-sync/feature/events/ticketmaster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEventbrite struct {
	orgID   string
	orgName string
	events  []eventbrite.Event
	err     error

	detectCalls int
	fetchCalls  int
}

func (f *fakeEventbrite) DetectOrganization(ctx context.Context) (string, string, error) {
	f.detectCalls++
	return f.orgID, f.orgName, f.err
}

func (f *fakeEventbrite) FetchOrgEvents(ctx context.Context, orgID string, start, end time.Time) ([]eventbrite.Event, error) {
	f.fetchCalls++
	return f.events, f.err
}

func (f *fakeEventbrite) SearchEvents(ctx context.Context, address, within string, start, end time.Time) ([]eventbrite.Event, error) {
	return f.events, f.err
}

type fakeTicketmaster struct {
	events []ticketmaster.Event
	err    error
}

func (f *fakeTicketmaster) FetchEvents(ctx context.Context, city, countryCode string) ([]ticketmaster.Event, error) {
	return f.events, f.err
}

// newTestService builds a sync service on an in-memory database.
func newTestService(t *testing.T) (*Service, *settings.Store, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	store := settings.NewStore(db)
	require.NoError(t, store.Migrate())

	logger := zap.NewNop()
	venues := catalog.NewVenueResolver(db, logger)
	upserter := catalog.NewUpserter(db, venues, nil, logger)
	enforcer := catalog.NewEnforcer(db, logger)

	return NewService(store, upserter, enforcer, logger), store, db
}

func TestRunMissingCredentials(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Run(context.Background(), catalog.SourceTicketmaster)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no API credentials configured for Ticketmaster")
}

func TestRunTicketmasterPass(t *testing.T) {
	service, store, db := newTestService(t)
	require.NoError(t, store.Set("ticketmaster.api_key", "test-key"))

	fake := &fakeTicketmaster{
		events: []ticketmaster.Event{
			{ID: "TM1", Name: "Arena Tour", Dates: ticketmaster.Dates{Status: ticketmaster.Status{Code: "onsale"}}},
			{ID: "TM2", Name: "Cancelled Gig", Dates: ticketmaster.Dates{Status: ticketmaster.Status{Code: "cancelled"}}},
			{Name: "No ID"}, // rejected by the mapper, counted as skipped
		},
	}
	service.newTicketmaster = func(apiKey string) TicketmasterFetcher {
		assert.Equal(t, "test-key", apiKey)
		return fake
	}

	summary, err := service.Run(context.Background(), catalog.SourceTicketmaster)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "Success! Found 3 events from 'Ticketmaster'. Created: 2, Updated: 0, Skipped: 0",
		Summary{Label: "Ticketmaster", Found: 3, Created: 2}.String())

	var event models.Event
	require.NoError(t, db.Where("external_id = ?", "TM1").First(&event).Error)
	assert.True(t, event.WebsitePublished)

	event = models.Event{}
	require.NoError(t, db.Where("external_id = ?", "TM2").First(&event).Error)
	assert.False(t, event.WebsitePublished)
	assert.False(t, event.Active)

	// Second pass over the same data updates in place.
	summary, err = service.Run(context.Background(), catalog.SourceTicketmaster)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)

	var count int64
	db.Model(&models.Event{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRunFetchFailureKeepsCatalogUntouched(t *testing.T) {
	service, store, db := newTestService(t)
	require.NoError(t, store.Set("ticketmaster.api_key", "test-key"))

	existing := models.Event{
		Name:             "Existing",
		Source:           "ticketmaster",
		ExternalID:       "TM1",
		WebsitePublished: true,
		Active:           true,
	}
	require.NoError(t, db.Create(&existing).Error)

	service.newTicketmaster = func(apiKey string) TicketmasterFetcher {
		return &fakeTicketmaster{err: errors.New("ticketmaster: http 503")}
	}

	_, err := service.Run(context.Background(), catalog.SourceTicketmaster)
	assert.Error(t, err)

	// A failed fetch is zero new information: nothing is unpublished.
	require.NoError(t, db.First(&existing, existing.ID).Error)
	assert.True(t, existing.WebsitePublished)
	assert.True(t, existing.Active)
}

func TestRunEnforcementToggle(t *testing.T) {
	service, store, db := newTestService(t)
	require.NoError(t, store.Set("ticketmaster.api_key", "test-key"))

	service.newTicketmaster = func(apiKey string) TicketmasterFetcher {
		return &fakeTicketmaster{}
	}

	manual := models.Event{Name: "Manual Gala", WebsitePublished: true, Active: true}
	require.NoError(t, db.Create(&manual).Error)

	// Enforcement disabled: the manual event survives the pass.
	require.NoError(t, store.Set("ticketmaster.restrict_only_api_events", "0"))
	_, err := service.Run(context.Background(), catalog.SourceTicketmaster)
	require.NoError(t, err)
	require.NoError(t, db.First(&manual, manual.ID).Error)
	assert.True(t, manual.WebsitePublished)

	// Enabled (the default): it gets unpublished.
	require.NoError(t, store.Set("ticketmaster.restrict_only_api_events", "1"))
	_, err = service.Run(context.Background(), catalog.SourceTicketmaster)
	require.NoError(t, err)
	require.NoError(t, db.First(&manual, manual.ID).Error)
	assert.False(t, manual.WebsitePublished)
}

func TestRunEventbriteOrgAutoDetect(t *testing.T) {
	service, store, _ := newTestService(t)
	require.NoError(t, store.Set("eventbrite.api_token", "test-token"))

	fake := &fakeEventbrite{
		orgID:   "org1",
		orgName: "Acme Events",
		events:  []eventbrite.Event{{ID: "EB1", Status: "live"}},
	}
	service.newEventbrite = func(token string) EventbriteFetcher {
		assert.Equal(t, "test-token", token)
		return fake
	}

	summary, err := service.Run(context.Background(), catalog.SourceEventbrite)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.detectCalls)
	assert.Equal(t, "Acme Events", summary.Label)
	assert.Equal(t, 1, summary.Created)

	// The detected organization id is persisted for the next pass.
	assert.Equal(t, "org1", store.Get("eventbrite.org_id", ""))

	_, err = service.Run(context.Background(), catalog.SourceEventbrite)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.detectCalls)
	assert.Equal(t, 2, fake.fetchCalls)
}

func TestRunManualReportsErrorsInBand(t *testing.T) {
	service, _, _ := newTestService(t)

	message := service.RunManual(context.Background(), catalog.SourceEventbrite)
	assert.Equal(t, "Error: no API credentials configured for Eventbrite", message)
}

func TestRunManualSuccessMessage(t *testing.T) {
	service, store, _ := newTestService(t)
	require.NoError(t, store.Set("ticketmaster.api_key", "test-key"))

	service.newTicketmaster = func(apiKey string) TicketmasterFetcher {
		return &fakeTicketmaster{events: []ticketmaster.Event{{ID: "TM1", Name: "Show"}}}
	}

	message := service.RunManual(context.Background(), catalog.SourceTicketmaster)
	assert.Equal(t, "Success! Found 1 events from 'Ticketmaster'. Created: 1, Updated: 0, Skipped: 0", message)
}

func TestRunUnknownSource(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Run(context.Background(), catalog.Source("meetup"))
	assert.Error(t, err)
}
