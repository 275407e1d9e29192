package suggest

import (
	"context"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

// ProductCatalog searches the storefront catalog by name or description.
// caseInsensitive selects the rich (indexed) query shape; implementations
// that cannot serve it return domain.ErrQueryModeUnsupported so the caller
// can retry with the plain case-sensitive substring mode.
type ProductCatalog interface {
	Search(ctx context.Context, pattern string, caseInsensitive bool, limit int) ([]domain.Product, error)
}

// HistoryStore reads (and records) the query log.
type HistoryStore interface {
	TopQueries(ctx context.Context, pattern string, limit int) ([]domain.HistoryEntry, error)
	Record(ctx context.Context, query string) error
}

// Cache stores computed suggestion lists under a normalized key.
type Cache interface {
	Get(key string) ([]string, bool)
	Put(key string, suggestions []string)
}

// KeywordSet is the read-only static keyword lookup.
type KeywordSet interface {
	All() []string
	PrefixMatches(query string) []string
	Overlapping(query string) []string
	Containing(query string) []string
}
