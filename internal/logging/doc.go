// Package logging assembles structured slog loggers and formatting helpers used
// across Cadenza.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and tags every record with the term, entry ID, attempt, stage, and
// correlation ID carried on the context. The package also provides a no-op
// logger for tests and for library code constructed without one.
package logging
