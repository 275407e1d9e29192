package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/normalize"
)

// Collection limits for the rich query mode.
const (
	productLimit = 30
	historyLimit = 15

	// variantMinLen gates buying-intent and popular-keyword synthesis;
	// very short queries produce too much noise.
	variantMinLen = 3
)

// Collector gathers raw suggestion candidates from the catalog, the query
// log, and the static keyword sets.
type Collector struct {
	catalog  ProductCatalog
	history  HistoryStore
	trending KeywordSet
	popular  KeywordSet
}

// NewCollector creates a candidate collector.
func NewCollector(catalog ProductCatalog, history HistoryStore, trending, popular KeywordSet) *Collector {
	return &Collector{catalog: catalog, history: history, trending: trending, popular: popular}
}

// Rich collects candidates from every source for a query of length >= 2.
// Collaborator faults propagate classified; the orchestrator decides the
// downgrade.
func (c *Collector) Rich(ctx context.Context, query string) ([]domain.Candidate, error) {
	products, err := c.catalog.Search(ctx, query, true, productLimit)
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	var out []domain.Candidate
	for _, p := range products {
		out = append(out, domain.Candidate{Text: p.Name, Source: domain.SourceProduct})
	}

	// Compound the query with each distinct category seen in the results.
	seenCat := make(map[string]struct{})
	for _, p := range products {
		cat := strings.TrimSpace(p.CategoryName)
		if cat == "" {
			continue
		}
		if _, dup := seenCat[cat]; dup {
			continue
		}
		seenCat[cat] = struct{}{}
		out = append(out, domain.Candidate{
			Text:   query + " " + cat,
			Source: domain.SourceCategory,
		})
	}

	entries, err := c.history.TopQueries(ctx, query, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("collect history: %w", err)
	}
	for _, e := range entries {
		out = append(out, domain.Candidate{Text: e.Query, Source: domain.SourceHistory})
	}

	out = append(out, c.variants(query)...)
	out = append(out, c.trendingMatches(query)...)
	return out, nil
}

// Simplified collects product candidates only, using the plain
// case-sensitive substring query shape.
func (c *Collector) Simplified(ctx context.Context, query string) ([]domain.Candidate, error) {
	products, err := c.catalog.Search(ctx, query, false, productLimit)
	if err != nil {
		return nil, fmt.Errorf("collect products simplified: %w", err)
	}
	out := make([]domain.Candidate, 0, len(products))
	for _, p := range products {
		out = append(out, domain.Candidate{Text: p.Name, Source: domain.SourceProduct})
	}
	return out, nil
}

// variants synthesizes buying-intent phrasings and popular-keyword
// compounds for queries longer than variantMinLen.
func (c *Collector) variants(query string) []domain.Candidate {
	if utf8.RuneCountInString(query) <= variantMinLen {
		return nil
	}

	out := []domain.Candidate{
		{Text: "Mua " + query, Source: domain.SourceVariant},
		{Text: query + " giá rẻ", Source: domain.SourceVariant},
	}

	nq := normalize.String(query)
	for _, kw := range c.popular.Overlapping(query) {
		if strings.Contains(nq, normalize.String(kw)) {
			continue // keyword already part of the query
		}
		out = append(out, domain.Candidate{
			Text:   query + " " + kw,
			Source: domain.SourceVariant,
		})
	}
	return out
}

// trendingMatches returns trending keywords whose normalized form overlaps
// the normalized query.
func (c *Collector) trendingMatches(query string) []domain.Candidate {
	var out []domain.Candidate
	for _, kw := range c.trending.Overlapping(query) {
		out = append(out, domain.Candidate{Text: kw, Source: domain.SourceTrending})
	}
	return out
}
