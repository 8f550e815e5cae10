// Package validation scores a candidate dictionary entry against the quality
// rubric with a single completion request.
//
// Validate never returns an error. Any failure to reach the completion service
// or to parse its answer degrades to FailedResult (score 0, one "Validation
// failed" issue) so the generation loop treats it as a failed attempt.
package validation
