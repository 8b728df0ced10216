// Package models defines the persisted entities of the event catalog:
// events, venue places, and the country/state reference tables used by
// venue resolution.
package models
