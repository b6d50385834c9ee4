// Package pipeline runs the per-file indexing flow: text extraction,
// rule and model classification, amount parsing, perceptual hashing,
// relocation, and persistence — plus the backfill passes that enrich
// existing records in place.
package pipeline
