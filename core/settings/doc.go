// Package settings provides a database-backed key-value store for runtime
// sync configuration (API tokens, publish policy, date windows).
//
// Unlike core/config, which is read from the environment at startup, these
// values can be changed while the service runs. Sync passes snapshot the
// relevant keys once at pass start into an immutable options value, so a
// mid-pass settings change never affects a running pass.
package settings
