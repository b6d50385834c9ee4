// Package category defines the fixed category enumeration and the
// ordered keyword table used for rule-based screenshot classification.
package category
