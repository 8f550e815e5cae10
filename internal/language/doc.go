// Package language owns the language codes the dictionary recognizes and the
// detector that classifies a musical term's source language.
//
// Detection is pattern based: curated per-language term lists are consulted in
// priority order (Italian, German, French, Latin, English, Spanish) for exact
// and variant matches, with an orthographic heuristic as the low-confidence
// fallback. The detector holds no mutable state and is safe for concurrent use.
package language
