package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/services"
)

// FindByTerm returns the entry for term in language, or nil when absent.
func (s *Store) FindByTerm(ctx context.Context, term, language string) (*dictionary.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE normalized_term = ? AND language = ?`,
		dictionary.NormalizeTerm(term), normalizeLanguage(language),
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by term: %w", err)
	}
	return entry, nil
}

// GetByID fetches an entry by identifier, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*dictionary.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Create inserts a new entry. A duplicate id or (term, language) pair fails
// with services.ErrConflict.
func (s *Store) Create(ctx context.Context, entry *dictionary.Entry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	row, err := toRow(entry)
	if err != nil {
		return err
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO entries (
            id, term, normalized_term, language, type, definition_json, references_json,
            metadata_json, quality_json, quality_overall, human_verified, search_frequency,
            last_accessed, version, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.term, row.normalized, row.language, row.termType, row.definition, row.references,
		row.metadata, row.quality, row.overall, row.humanVerified, row.searchFrequency,
		row.lastAccessed, row.version, row.createdAt, row.updatedAt,
	)
	if isUniqueViolation(err) {
		return services.Wrap(services.ErrConflict, "store", "create",
			fmt.Sprintf("entry for %q (%s) already exists", row.normalized, row.language), err)
	}
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Upsert inserts entry or replaces the content of the row sharing its
// (normalized_term, language) key. The stored row keeps its original id and
// creation time. Human-verified rows are never replaced. The returned entry
// reflects what was stored.
func (s *Store) Upsert(ctx context.Context, entry *dictionary.Entry) (*dictionary.Entry, error) {
	if err := checkEntry(entry); err != nil {
		return nil, err
	}
	row, err := toRow(entry)
	if err != nil {
		return nil, err
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO entries (
            id, term, normalized_term, language, type, definition_json, references_json,
            metadata_json, quality_json, quality_overall, human_verified, search_frequency,
            last_accessed, version, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (normalized_term, language) DO UPDATE SET
            term = excluded.term,
            type = excluded.type,
            definition_json = excluded.definition_json,
            references_json = excluded.references_json,
            metadata_json = excluded.metadata_json,
            quality_json = excluded.quality_json,
            quality_overall = excluded.quality_overall,
            human_verified = excluded.human_verified,
            version = MAX(entries.version, excluded.version),
            updated_at = excluded.updated_at
        WHERE entries.human_verified = 0`,
		row.id, row.term, row.normalized, row.language, row.termType, row.definition, row.references,
		row.metadata, row.quality, row.overall, row.humanVerified, row.searchFrequency,
		row.lastAccessed, row.version, row.createdAt, row.updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}
	stored, err := s.FindByTerm(ctx, row.normalized, row.language)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "upsert", "entry vanished after write", nil)
	}
	return stored, nil
}

// Update replaces an existing entry by id.
func (s *Store) Update(ctx context.Context, entry *dictionary.Entry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	row, err := toRow(entry)
	if err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE entries
         SET term = ?, normalized_term = ?, language = ?, type = ?, definition_json = ?,
             references_json = ?, metadata_json = ?, quality_json = ?, quality_overall = ?,
             human_verified = ?, search_frequency = ?, last_accessed = ?, version = ?, updated_at = ?
         WHERE id = ?`,
		row.term, row.normalized, row.language, row.termType, row.definition,
		row.references, row.metadata, row.quality, row.overall,
		row.humanVerified, row.searchFrequency, row.lastAccessed, row.version, row.updatedAt,
		row.id,
	)
	if isUniqueViolation(err) {
		return services.Wrap(services.ErrConflict, "store", "update", row.normalized, err)
	}
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireAffected(res, "update", entry.ID)
}

// Touch records a lookup hit: search_frequency grows by one and
// last_accessed becomes at.
func (s *Store) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE entries SET search_frequency = search_frequency + 1, last_accessed = ? WHERE id = ?`,
		formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("touch entry: %w", err)
	}
	return requireAffected(res, "touch", id)
}

// List returns entries matching opts.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*dictionary.Entry, error) {
	var (
		where []string
		args  []any
	)
	order := ` ORDER BY normalized_term, language`
	if opts.MaxScore > 0 {
		where = append(where, "quality_overall < ?")
		args = append(args, opts.MaxScore)
		order = ` ORDER BY quality_overall, normalized_term`
	}
	if opts.ExcludeVerified {
		where = append(where, "human_verified = 0")
	}
	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += order
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*dictionary.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

func checkEntry(entry *dictionary.Entry) error {
	if entry == nil {
		return services.Wrap(services.ErrValidation, "store", "write", "entry is nil", nil)
	}
	if strings.TrimSpace(entry.ID) == "" {
		return services.Wrap(services.ErrValidation, "store", "write", "entry id is required", nil)
	}
	if strings.TrimSpace(entry.Term) == "" {
		return services.Wrap(services.ErrValidation, "store", "write", "entry term is required", nil)
	}
	return nil
}

func requireAffected(res sql.Result, op, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", op, fmt.Sprintf("entry %s", id), nil)
	}
	return nil
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
