// Package notifications delivers workflow events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Per-event toggles let users keep cycle summaries while muting
// per-file chatter. All workflow code depends only on the Service
// interface.
package notifications
