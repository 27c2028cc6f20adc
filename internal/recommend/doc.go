// Package recommend holds the fixed table of study recommendations keyed by
// emotion and stress labels.
//
// Lookup is total: unrecognised labels resolve to the neutral entry, and every
// result is a copy so callers can never mutate the shared table.
package recommend
