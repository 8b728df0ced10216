package sync

import (
	"event-sync/core/settings"
	"event-sync/feature/events/catalog"
)

// Options is an immutable snapshot of the runtime settings one sync pass
// runs with. It is loaded once at pass start so mid-pass settings changes
// never affect a running pass.
type Options struct {
	Source catalog.Source

	// Token is the Eventbrite bearer token or the Ticketmaster API key.
	Token string

	// Eventbrite fetch mode: "org" (organization events) or "search".
	SearchMode      string
	OrgID           string
	LocationAddress string
	LocationWithin  string
	DateWindowDays  int

	// Ticketmaster city filter.
	City        string
	CountryCode string

	AutoPublish bool
	SiteID      uint

	// RestrictOnlyAPIEvents enables visibility enforcement after the pass.
	RestrictOnlyAPIEvents bool
}

// LoadOptions snapshots the settings for one source.
func LoadOptions(store *settings.Store, source catalog.Source) Options {
	opts := Options{Source: source}

	switch source {
	case catalog.SourceEventbrite:
		opts.Token = store.Get("eventbrite.api_token", "")
		opts.SearchMode = store.Get("eventbrite.search_mode", "org")
		opts.OrgID = store.Get("eventbrite.org_id", "")
		opts.LocationAddress = store.Get("eventbrite.location_address", "")
		opts.LocationWithin = store.Get("eventbrite.location_within", "25km")
		opts.DateWindowDays = store.GetInt("eventbrite.date_window_days", 60)
		opts.AutoPublish = store.GetBool("eventbrite.auto_publish", true)
		opts.SiteID = uint(store.GetInt("eventbrite.site_id", 0))
		opts.RestrictOnlyAPIEvents = store.GetBool("eventbrite.restrict_only_api_events", true)

	case catalog.SourceTicketmaster:
		opts.Token = store.Get("ticketmaster.api_key", "")
		opts.City = store.Get("ticketmaster.city", "New York")
		opts.CountryCode = store.Get("ticketmaster.country_code", "US")
		opts.AutoPublish = store.GetBool("ticketmaster.auto_publish", true)
		opts.SiteID = uint(store.GetInt("ticketmaster.site_id", 0))
		opts.RestrictOnlyAPIEvents = store.GetBool("ticketmaster.restrict_only_api_events", true)
	}

	return opts
}
