// Package generation produces new dictionary entries.
//
// Generate runs a bounded retry loop modeled as a small state machine:
//
//	Drafting -> Resolving -> Validating -> Accepted
//	                              |
//	                              v
//	                          Retrying -> Drafting (with feedback) | Failed
//
// Each attempt drafts a definition (seeded with the previous attempt's issues
// and suggestions after the first), resolves references for the detected
// language, and scores the assembled entry. The first attempt scoring at or
// above the threshold is finalized with a new identifier and version 1. When
// the budget runs out, Generate returns a *QualityError.
//
// Completion-service failures while drafting end the call with an error
// tagged services.ErrAIService. A draft that cannot be parsed counts as a
// failed attempt.
//
// GenerateBatch fans requests out in fixed-size windows. Each item owns its
// attempt counter and feedback; one item's failure becomes a failure record
// and never cancels its siblings.
package generation
