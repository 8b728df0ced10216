// Package ticketmaster implements the Ticketmaster Discovery v2 source: a
// paginated API client and the field mapper that turns raw payloads into
// canonical events.
package ticketmaster
