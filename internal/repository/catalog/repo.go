// Package catalog adapts the product store into the suggestion engine's
// ProductCatalog collaborator.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/typeahead/internal/db"
	"github.com/kailas-cloud/typeahead/internal/db/redis"
	"github.com/kailas-cloud/typeahead/internal/domain"
)

const (
	productPrefix = domain.KeyPrefix + "product:"
	indexName     = domain.KeyPrefix + "product:idx"

	// scanCap bounds the keyspace walk on the simplified (no FT module) path.
	scanCap = 2000
)

// store is the consumer interface for catalog operations (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	EnsureIndex(ctx context.Context, def *db.IndexDefinition) error
	ScanHashes(ctx context.Context, pattern string, limit int) ([]db.SearchEntry, error)
}

// Repo implements suggest.ProductCatalog over product hashes.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the product FT index if the backend supports it.
// A backend without the FT module is not an error here; rich queries will
// report unsupported at search time instead.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.EnsureIndex(ctx, &db.IndexDefinition{
		Name:       indexName,
		Prefix:     productPrefix,
		TextFields: []string{"name", "description"},
		TagFields:  []string{"category"},
	})
	if err != nil && !errors.Is(err, db.ErrSearchUnsupported) {
		return fmt.Errorf("ensure product index: %w", err)
	}
	return nil
}

// Search returns up to limit products whose name or description matches
// pattern. The case-insensitive mode requires the FT module; when it is
// missing the error is classified as unsupported so the caller can retry
// with the plain-substring mode (caseInsensitive=false).
func (r *Repo) Search(
	ctx context.Context, pattern string, caseInsensitive bool, limit int,
) ([]domain.Product, error) {
	if caseInsensitive {
		return r.searchIndexed(ctx, pattern, limit)
	}
	return r.searchScan(ctx, pattern, limit)
}

func (r *Repo) searchIndexed(ctx context.Context, pattern string, limit int) ([]domain.Product, error) {
	escaped := redis.EscapeQuery(pattern)
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    indexName,
		Query:        fmt.Sprintf("(@name|description:*%s*)", escaped),
		ReturnFields: []string{"name", "category"},
		Limit:        limit,
	})
	if err != nil {
		if errors.Is(err, db.ErrSearchUnsupported) {
			return nil, fmt.Errorf("catalog search %q: %w", pattern, domain.ErrQueryModeUnsupported)
		}
		return nil, fmt.Errorf("catalog search %q: %w: %w", pattern, domain.ErrSourceUnavailable, err)
	}

	return entriesToProducts(sr.Entries, limit), nil
}

// searchScan is the degraded product lookup: walk product hashes and match
// the raw pattern as a case-sensitive substring of name or description.
func (r *Repo) searchScan(ctx context.Context, pattern string, limit int) ([]domain.Product, error) {
	entries, err := r.store.ScanHashes(ctx, productPrefix+"*", scanCap)
	if err != nil {
		return nil, fmt.Errorf("catalog scan %q: %w: %w", pattern, domain.ErrSourceUnavailable, err)
	}

	var matched []db.SearchEntry
	for _, e := range entries {
		if strings.Contains(e.Fields["name"], pattern) ||
			strings.Contains(e.Fields["description"], pattern) {
			matched = append(matched, e)
			if len(matched) >= limit {
				break
			}
		}
	}
	return entriesToProducts(matched, limit), nil
}

func entriesToProducts(entries []db.SearchEntry, limit int) []domain.Product {
	products := make([]domain.Product, 0, len(entries))
	for _, e := range entries {
		name := e.Fields["name"]
		if name == "" {
			continue
		}
		products = append(products, domain.Product{
			Name:         name,
			CategoryName: e.Fields["category"],
		})
		if len(products) >= limit {
			break
		}
	}
	return products
}
