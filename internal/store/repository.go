package store

import (
	"context"
	"time"

	"cadenza/internal/dictionary"
)

// Repository is the persistence contract used by the catalog.
type Repository interface {
	FindByTerm(ctx context.Context, term, language string) (*dictionary.Entry, error)
	GetByID(ctx context.Context, id string) (*dictionary.Entry, error)
	Create(ctx context.Context, entry *dictionary.Entry) error
	Upsert(ctx context.Context, entry *dictionary.Entry) (*dictionary.Entry, error)
	Update(ctx context.Context, entry *dictionary.Entry) error
	Touch(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, opts ListOptions) ([]*dictionary.Entry, error)
	Count(ctx context.Context) (int, error)
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the result size; zero means no limit.
	Limit int
	// MaxScore, when positive, keeps entries scoring strictly below it and
	// orders them weakest first.
	MaxScore int
	// ExcludeVerified drops human-verified entries.
	ExcludeVerified bool
}

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*Memory)(nil)
)
