// Package eventbrite implements the Eventbrite v3 source: a paginated API
// client (organization events, public search, organization auto-detection)
// and the field mapper that turns raw payloads into canonical events.
package eventbrite
