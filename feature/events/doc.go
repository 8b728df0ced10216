// Package events is the event catalog feature: HTTP routes for website
// listing and the manual sync trigger, wired on top of the reconciliation
// core in the catalog, eventbrite, ticketmaster, and sync sub-packages.
package events
