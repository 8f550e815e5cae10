// Package references resolves the encyclopedia and video references for a
// term.
//
// Resolution runs in four steps:
//
//  1. Ask the completion service for a cleaned encyclopedia phrase and a
//     video phrase, then apply local cleaning rules that always run.
//  2. Query the lookup service for up to the configured number of
//     candidate pages, retrying once in English for other languages.
//  3. Use a single candidate directly; with several, ask the completion
//     service for an ordinal and clamp it (unparsable or out of range picks
//     the first). If that call fails, rank by token similarity instead.
//  4. When no candidate is available, build the page URL directly from the
//     cleaned phrase.
//
// Lookup and completion failures are logged and recovered; Resolve returns an
// error only when the caller's context ends.
package references
