package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"event-sync/core/metrics"
	"event-sync/core/settings"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/eventbrite"
	"event-sync/feature/events/ticketmaster"

	"go.uber.org/zap"
)

// EventbriteFetcher is the slice of the Eventbrite client the service uses.
type EventbriteFetcher interface {
	DetectOrganization(ctx context.Context) (string, string, error)
	FetchOrgEvents(ctx context.Context, orgID string, start, end time.Time) ([]eventbrite.Event, error)
	SearchEvents(ctx context.Context, address, within string, start, end time.Time) ([]eventbrite.Event, error)
}

// TicketmasterFetcher is the slice of the Ticketmaster client the service uses.
type TicketmasterFetcher interface {
	FetchEvents(ctx context.Context, city, countryCode string) ([]ticketmaster.Event, error)
}

// Summary aggregates the outcomes of one sync pass.
type Summary struct {
	// Label names the upstream in summaries, e.g. an organization name.
	Label   string
	Found   int
	Created int
	Updated int
	Skipped int
	// Failed counts per-record failures. They are logged and exported as
	// metrics but kept out of the user-facing summary string.
	Failed int
}

// String renders the human-readable summary returned by the manual trigger.
func (s Summary) String() string {
	return fmt.Sprintf("Success! Found %d events from '%s'. Created: %d, Updated: %d, Skipped: %d",
		s.Found, s.Label, s.Created, s.Updated, s.Skipped)
}

// Service runs full sync passes: fetch, map, resolve, upsert, enforce.
type Service struct {
	store    *settings.Store
	upserter *catalog.Upserter
	enforcer *catalog.Enforcer
	logger   *zap.Logger

	// Client factories; passes construct clients with per-pass credentials.
	// Tests swap these for fakes.
	newEventbrite   func(token string) EventbriteFetcher
	newTicketmaster func(apiKey string) TicketmasterFetcher

	// Passes are serialized per source, so a manual trigger overlapping the
	// scheduled one waits instead of racing on the same external ids.
	locks map[catalog.Source]*gosync.Mutex
}

// NewService creates the sync service.
func NewService(store *settings.Store, upserter *catalog.Upserter, enforcer *catalog.Enforcer, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		upserter: upserter,
		enforcer: enforcer,
		logger:   logger,
		newEventbrite: func(token string) EventbriteFetcher {
			return eventbrite.NewClient(token, logger)
		},
		newTicketmaster: func(apiKey string) TicketmasterFetcher {
			return ticketmaster.NewClient(apiKey, logger)
		},
		locks: map[catalog.Source]*gosync.Mutex{
			catalog.SourceEventbrite:   {},
			catalog.SourceTicketmaster: {},
		},
	}
}

// Run executes one full sync pass for a source and returns its summary.
// A missing credential aborts before any work. A fetch failure aborts the
// whole pass: no events are processed, existing records stay untouched.
func (s *Service) Run(ctx context.Context, source catalog.Source) (Summary, error) {
	lock, ok := s.locks[source]
	if !ok {
		return Summary{}, fmt.Errorf("unknown source %q", source)
	}
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	defer func() {
		metrics.PassDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	}()

	opts := LoadOptions(s.store, source)
	if opts.Token == "" {
		return Summary{}, fmt.Errorf("no API credentials configured for %s", source.Label())
	}

	records, label, err := s.fetch(ctx, opts)
	if err != nil {
		metrics.FetchFailures.WithLabelValues(string(source)).Inc()
		return Summary{}, err
	}

	summary := Summary{Label: label, Found: len(records)}
	for _, rec := range records {
		outcome, err := s.upserter.Upsert(ctx, rec, opts.AutoPublish, opts.SiteID)
		if err != nil {
			// One bad record never blocks the rest of the batch.
			s.logger.Error("Failed to upsert event",
				zap.String("source", string(source)),
				zap.String("external_id", rec.ExternalID),
				zap.Error(err))
		}
		switch outcome {
		case catalog.OutcomeCreated:
			summary.Created++
		case catalog.OutcomeUpdated:
			summary.Updated++
		case catalog.OutcomeSkipped:
			summary.Skipped++
		case catalog.OutcomeFailed:
			summary.Failed++
		}
		metrics.EventsProcessed.WithLabelValues(string(source), string(outcome)).Inc()
	}

	if opts.RestrictOnlyAPIEvents {
		if _, err := s.enforcer.Enforce(opts.SiteID); err != nil {
			s.logger.Error("Visibility enforcement failed", zap.Error(err))
		}
	}

	s.logger.Info("Sync pass finished",
		zap.String("source", string(source)),
		zap.Int("found", summary.Found),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

// RunManual executes a pass and always returns a human-readable string,
// never an error: the manual trigger surface reports failures in-band.
func (s *Service) RunManual(ctx context.Context, source catalog.Source) string {
	summary, err := s.Run(ctx, source)
	if err != nil {
		s.logger.Error("Manual sync failed",
			zap.String("source", string(source)),
			zap.Error(err))
		return fmt.Sprintf("Error: %s", err.Error())
	}
	return summary.String()
}

// RunScheduled executes a pass for the cron trigger. Errors go to the log
// only; there is no user-facing channel to surface them to.
func (s *Service) RunScheduled(source catalog.Source) {
	if _, err := s.Run(context.Background(), source); err != nil {
		s.logger.Error("Scheduled sync failed",
			zap.String("source", string(source)),
			zap.Error(err))
	}
}

// fetch retrieves and maps the raw events for one pass. It returns canonical
// records plus the label used in the summary. Mapper rejections (records
// without an id) are dropped here and surface as skips via the id-less guard
// in the upserter, keeping one code path for both.
func (s *Service) fetch(ctx context.Context, opts Options) ([]catalog.CanonicalEvent, string, error) {
	switch opts.Source {
	case catalog.SourceEventbrite:
		return s.fetchEventbrite(ctx, opts)
	case catalog.SourceTicketmaster:
		return s.fetchTicketmaster(ctx, opts)
	default:
		return nil, "", fmt.Errorf("unknown source %q", opts.Source)
	}
}

func (s *Service) fetchEventbrite(ctx context.Context, opts Options) ([]catalog.CanonicalEvent, string, error) {
	client := s.newEventbrite(opts.Token)

	now := time.Now().UTC()
	end := now.AddDate(0, 0, opts.DateWindowDays)

	label := catalog.SourceEventbrite.Label()
	var (
		raws []eventbrite.Event
		err  error
	)

	if opts.SearchMode == "search" {
		raws, err = client.SearchEvents(ctx, opts.LocationAddress, opts.LocationWithin, now, end)
	} else {
		orgID := opts.OrgID
		if orgID == "" {
			// Auto-detect the organization from the token and persist it
			// so later passes skip the extra round trip.
			id, name, derr := client.DetectOrganization(ctx)
			if derr != nil {
				return nil, "", derr
			}
			orgID = id
			label = name
			if serr := s.store.Set("eventbrite.org_id", id); serr != nil {
				s.logger.Warn("Failed to persist detected organization id", zap.Error(serr))
			}
		}
		raws, err = client.FetchOrgEvents(ctx, orgID, now, end)
	}
	if err != nil {
		return nil, "", err
	}

	return s.mapEventbrite(raws), label, nil
}

func (s *Service) mapEventbrite(raws []eventbrite.Event) []catalog.CanonicalEvent {
	records := make([]catalog.CanonicalEvent, 0, len(raws))
	for _, raw := range raws {
		rec, err := eventbrite.MapEvent(raw)
		if err != nil {
			s.logger.Warn("Rejected unmappable event",
				zap.String("source", "eventbrite"),
				zap.Error(err))
			records = append(records, catalog.CanonicalEvent{Source: catalog.SourceEventbrite})
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (s *Service) fetchTicketmaster(ctx context.Context, opts Options) ([]catalog.CanonicalEvent, string, error) {
	client := s.newTicketmaster(opts.Token)

	raws, err := client.FetchEvents(ctx, opts.City, opts.CountryCode)
	if err != nil {
		return nil, "", err
	}

	records := make([]catalog.CanonicalEvent, 0, len(raws))
	for _, raw := range raws {
		rec, err := ticketmaster.MapEvent(raw)
		if err != nil {
			s.logger.Warn("Rejected unmappable event",
				zap.String("source", "ticketmaster"),
				zap.Error(err))
			records = append(records, catalog.CanonicalEvent{Source: catalog.SourceTicketmaster})
			continue
		}
		records = append(records, rec)
	}

	return records, catalog.SourceTicketmaster.Label(), nil
}
