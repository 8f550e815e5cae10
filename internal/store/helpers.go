package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cadenza/internal/dictionary"
)

const entryColumns = "id, term, normalized_term, language, type, definition_json, references_json, metadata_json, quality_json, search_frequency, last_accessed, version, created_at, updated_at"

// entryRow is the column form of an entry.
type entryRow struct {
	id, term, normalized, language, termType  string
	definition, references, metadata, quality string
	overall                                   int
	humanVerified                             int
	searchFrequency                           int
	lastAccessed                              any
	version                                   int
	createdAt, updatedAt                      string
}

func toRow(entry *dictionary.Entry) (entryRow, error) {
	definition, err := json.Marshal(entry.Definition)
	if err != nil {
		return entryRow{}, fmt.Errorf("marshal definition: %w", err)
	}
	references, err := json.Marshal(entry.References)
	if err != nil {
		return entryRow{}, fmt.Errorf("marshal references: %w", err)
	}
	meta := entry.Metadata
	meta.SearchFrequency = 0
	meta.LastAccessed = nil
	metadata, err := json.Marshal(meta)
	if err != nil {
		return entryRow{}, fmt.Errorf("marshal metadata: %w", err)
	}
	quality, err := json.Marshal(entry.QualityScore)
	if err != nil {
		return entryRow{}, fmt.Errorf("marshal quality score: %w", err)
	}
	termType := entry.Type
	if termType == "" {
		termType = dictionary.TypeGeneral
	}
	normalized := dictionary.NormalizeTerm(entry.Term)
	return entryRow{
		id:              entry.ID,
		term:            entry.Term,
		normalized:      normalized,
		language:        strings.ToLower(strings.TrimSpace(entry.Language)),
		termType:        string(termType),
		definition:      string(definition),
		references:      string(references),
		metadata:        string(metadata),
		quality:         string(quality),
		overall:         entry.QualityScore.Overall,
		humanVerified:   boolToInt(entry.QualityScore.HumanVerified),
		searchFrequency: entry.Metadata.SearchFrequency,
		lastAccessed:    nullableTime(entry.Metadata.LastAccessed),
		version:         entry.Version,
		createdAt:       formatTime(entry.CreatedAt),
		updatedAt:       formatTime(entry.UpdatedAt),
	}, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*dictionary.Entry, error) {
	var (
		id, term, normalized, language, termType  string
		definition, references, metadata, quality string
		searchFrequency                           sql.NullInt64
		lastAccessedRaw                           sql.NullString
		version                                   int
		createdRaw, updatedRaw                    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&term,
		&normalized,
		&language,
		&termType,
		&definition,
		&references,
		&metadata,
		&quality,
		&searchFrequency,
		&lastAccessedRaw,
		&version,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &dictionary.Entry{
		ID:             id,
		Term:           term,
		NormalizedTerm: normalized,
		Language:       language,
		Type:           dictionary.TermType(termType),
		Version:        version,
	}
	if err := json.Unmarshal([]byte(definition), &entry.Definition); err != nil {
		return nil, fmt.Errorf("decode definition for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(references), &entry.References); err != nil {
		return nil, fmt.Errorf("decode references for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(quality), &entry.QualityScore); err != nil {
		return nil, fmt.Errorf("decode quality score for %s: %w", id, err)
	}
	entry.Metadata.SearchFrequency = int(searchFrequency.Int64)
	if lastAccessedRaw.Valid {
		if ts, err := parseTimeString(lastAccessedRaw.String); err == nil {
			entry.Metadata.LastAccessed = &ts
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
