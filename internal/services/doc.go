// Package services defines the shared error taxonomy for pipeline stages.
//
// Every per-file failure is wrapped with a sentinel marker plus the stage and
// operation that produced it, so callers and tests can classify failures with
// errors.Is instead of parsing log output. The scheduling loop never sees a
// raw stage error; it sees a typed outcome built from these markers.
package services
