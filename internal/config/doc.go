// Package config loads, normalizes, and validates shotsort configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the daemon and CLI
// need: intake directories, feature toggles, OCR and vision settings, and
// workflow intervals. Always obtain settings through this package so
// downstream code receives sanitized paths and clear validation errors.
package config
