// Package services defines shared utilities consumed by the generation pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp the term, entry ID, attempt, stage, and
//     correlation identifier for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     completion-service, quality, lookup, and store failures with errors.Is.
//
// Client subpackages (llm, wikipedia) wrap their failures with these markers so
// the pipeline decides what escapes and what degrades in one place.
package services
