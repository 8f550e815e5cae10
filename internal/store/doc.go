// Package store persists dictionary entries.
//
// Store is the SQLite implementation (modernc.org/sqlite, WAL journal,
// embedded migrations). Memory is an in-process arena keyed by entry id with
// the same semantics, used by tests and dry runs. Both enforce one entry per
// (normalized_term, language) pair; Upsert resolves concurrent generation of
// the same term onto a single row.
//
// Lookups that find nothing return (nil, nil). Create reports duplicates with
// services.ErrConflict; Update and Touch report unknown ids with
// services.ErrNotFound.
package store
