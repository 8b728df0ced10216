// Package sync orchestrates full sync passes over the upstream ticketing
// APIs: snapshot settings, fetch and map raw events, upsert them into the
// catalog, and optionally run visibility enforcement.
//
// Passes are serialized per source and idempotent, so an interrupted pass
// self-heals on the next run. The manual trigger reports results as a
// human-readable string; the scheduled trigger logs errors only.
package sync
