// Package catalog contains the reconciliation core of the event sync
// pipeline: the canonical event representation, per-source status policy
// tables, venue resolution, the create/update/skip upsert engine, visibility
// enforcement, and best-effort image enrichment.
//
// # Reconciliation
//
// Each upstream record is mapped to a CanonicalEvent by its source package
// and handed to Upserter.Upsert, which decides create, update, or skip based
// on the (source, external id) idempotency key and the upstream change token.
// Terminal-negative statuses (cancelled, deleted, postponed) force unpublish
// and deactivation regardless of the publish policy.
//
// # Visibility
//
// Enforcer hides any published event that no sync pass has ever touched, so
// the public website only displays API-sourced events.
package catalog
