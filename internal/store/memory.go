package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/services"
)

// Memory is an in-process Repository with the same semantics as Store.
// It backs dry runs and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*dictionary.Entry
	keys    map[string]string
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*dictionary.Entry),
		keys:    make(map[string]string),
	}
}

func memoryKey(term, language string) string {
	return dictionary.NormalizeTerm(term) + "|" + normalizeLanguage(language)
}

func cloneEntry(entry *dictionary.Entry) *dictionary.Entry {
	out := entry.Clone()
	return &out
}

func (m *Memory) FindByTerm(_ context.Context, term, language string) (*dictionary.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.keys[memoryKey(term, language)]
	if !ok {
		return nil, nil
	}
	return cloneEntry(m.entries[id]), nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*dictionary.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return cloneEntry(entry), nil
}

func (m *Memory) Create(_ context.Context, entry *dictionary.Entry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(entry.Term, entry.Language)
	if _, ok := m.entries[entry.ID]; ok {
		return services.Wrap(services.ErrConflict, "store", "create", fmt.Sprintf("entry %s already exists", entry.ID), nil)
	}
	if _, ok := m.keys[key]; ok {
		return services.Wrap(services.ErrConflict, "store", "create", fmt.Sprintf("entry for %q already exists", key), nil)
	}
	m.put(key, entry)
	return nil
}

func (m *Memory) Upsert(_ context.Context, entry *dictionary.Entry) (*dictionary.Entry, error) {
	if err := checkEntry(entry); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(entry.Term, entry.Language)
	id, ok := m.keys[key]
	if !ok {
		m.put(key, entry)
		return cloneEntry(m.entries[entry.ID]), nil
	}
	existing := m.entries[id]
	if existing.QualityScore.HumanVerified {
		return cloneEntry(existing), nil
	}
	merged := cloneEntry(entry)
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.Version = max(existing.Version, entry.Version)
	merged.Metadata.SearchFrequency = existing.Metadata.SearchFrequency
	merged.Metadata.LastAccessed = existing.Metadata.LastAccessed
	m.put(key, merged)
	return cloneEntry(merged), nil
}

func (m *Memory) Update(_ context.Context, entry *dictionary.Entry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.entries[entry.ID]
	if !ok {
		return services.Wrap(services.ErrNotFound, "store", "update", fmt.Sprintf("entry %s", entry.ID), nil)
	}
	oldKey := memoryKey(existing.Term, existing.Language)
	newKey := memoryKey(entry.Term, entry.Language)
	if newKey != oldKey {
		if owner, taken := m.keys[newKey]; taken && owner != entry.ID {
			return services.Wrap(services.ErrConflict, "store", "update", newKey, nil)
		}
		delete(m.keys, oldKey)
	}
	m.put(newKey, entry)
	return nil
}

func (m *Memory) Touch(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return services.Wrap(services.ErrNotFound, "store", "touch", fmt.Sprintf("entry %s", id), nil)
	}
	entry.Metadata.SearchFrequency++
	ts := at.UTC()
	entry.Metadata.LastAccessed = &ts
	return nil
}

func (m *Memory) List(_ context.Context, opts ListOptions) ([]*dictionary.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*dictionary.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		if opts.MaxScore > 0 && entry.QualityScore.Overall >= opts.MaxScore {
			continue
		}
		if opts.ExcludeVerified && entry.QualityScore.HumanVerified {
			continue
		}
		out = append(out, cloneEntry(entry))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if opts.MaxScore > 0 && a.QualityScore.Overall != b.QualityScore.Overall {
			return a.QualityScore.Overall < b.QualityScore.Overall
		}
		if a.NormalizedTerm != b.NormalizedTerm {
			return a.NormalizedTerm < b.NormalizedTerm
		}
		return strings.Compare(a.Language, b.Language) < 0
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// put stores a normalized copy; callers hold the write lock.
func (m *Memory) put(key string, entry *dictionary.Entry) {
	stored := cloneEntry(entry)
	stored.NormalizedTerm = dictionary.NormalizeTerm(stored.Term)
	stored.Language = normalizeLanguage(stored.Language)
	if stored.Type == "" {
		stored.Type = dictionary.TypeGeneral
	}
	m.entries[stored.ID] = stored
	m.keys[key] = stored.ID
}
