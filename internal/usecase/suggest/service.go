// Package suggest implements the search-suggestion engine: candidate
// collection, scoring, ranking, caching, and the fallback chain that
// guarantees a response despite collaborator failure.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/normalize"
)

// richMinLen is the minimum query length (in runes) for the rich path;
// shorter queries get the trending list.
const richMinLen = 2

// backfillThreshold is the simplified-mode result count below which
// popular keywords are mixed in.
const backfillThreshold = 5

// Service is the fallback orchestrator. Suggest never surfaces a
// collaborator fault to the caller; every degradation resolves to a
// (possibly empty) suggestion list.
type Service struct {
	cache     Cache
	collector *Collector
	history   HistoryStore
	trending  KeywordSet
	popular   KeywordSet
	fallback  KeywordSet

	weights domain.Weights
	limit   int
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group

	cacheTotal *prometheus.CounterVec // label "result": hit/miss
	pathTotal  *prometheus.CounterVec // label "path": trending/rich/simplified/static
}

// New creates the suggestion service with default weights, limit, and
// collaborator timeout.
func New(
	cache Cache,
	collector *Collector,
	history HistoryStore,
	trending, popular, fallback KeywordSet,
	logger *zap.Logger,
) *Service {
	return &Service{
		cache:     cache,
		collector: collector,
		history:   history,
		trending:  trending,
		popular:   popular,
		fallback:  fallback,
		weights:   domain.DefaultWeights(),
		limit:     domain.MaxSuggestions,
		timeout:   2 * time.Second,
		logger:    logger,
	}
}

// WithWeights overrides the scoring table.
func (s *Service) WithWeights(w domain.Weights) *Service {
	s.weights = w
	return s
}

// WithLimit overrides the maximum suggestion list length.
func (s *Service) WithLimit(n int) *Service {
	if n > 0 {
		s.limit = n
	}
	return s
}

// WithTimeout overrides the per-request collaborator timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithMetrics attaches hit/miss and fallback-path counters. Both may be nil.
func (s *Service) WithMetrics(cacheTotal, pathTotal *prometheus.CounterVec) *Service {
	s.cacheTotal = cacheTotal
	s.pathTotal = pathTotal
	return s
}

// Suggest returns up to 10 ranked suggestions for query. The error is
// non-nil only when the engine's own computation fails; collaborator
// faults degrade through the fallback chain instead.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	key := cacheKey(query)

	if list, ok := s.cache.Get(key); ok {
		s.incCache("hit")
		return list, nil
	}
	s.incCache("miss")

	// Concurrent misses for the same key share one computation; the cache
	// write survives the original caller.
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, query, key)
	})
	if err != nil {
		return []string{}, err
	}
	return v.([]string), nil
}

// compute runs the state machine for one cache miss and stores the result.
func (s *Service) compute(ctx context.Context, query, key string) (list []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("suggestion computation failed",
				zap.String("query", query),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			list, err = nil, fmt.Errorf("compute suggestions for %q: %v", query, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Route on the normalized form: a punctuation-only query has no
	// searchable content and must produce the same list as the empty
	// query it shares a cache key with.
	nq := normalize.String(query)
	var path string
	if utf8.RuneCountInString(nq) < richMinLen {
		list, path = s.trendingPath(ctx, nq), "trending"
	} else {
		list, path = s.queryPath(ctx, query)
	}
	s.incPath(path)

	s.cache.Put(key, list)
	return list, nil
}

// queryPath runs the rich mode and downgrades on classified faults.
func (s *Service) queryPath(ctx context.Context, query string) ([]string, string) {
	candidates, err := s.collector.Rich(ctx, query)
	switch domain.Classify(err) {
	case domain.FaultNone:
		return domain.Rank(candidates, query, s.weights, s.limit), "rich"
	case domain.FaultUnsupported:
		s.logger.Warn("rich query mode unsupported, downgrading",
			zap.String("query", query), zap.Error(err))
		return s.simplifiedPath(ctx, query)
	default:
		s.logger.Warn("suggestion source unavailable, using static fallback",
			zap.String("query", query), zap.Error(err))
		return s.staticFallback(query), "static"
	}
}

// simplifiedPath retries with the plain-substring product query and
// backfills from the popular keyword set when results run thin.
func (s *Service) simplifiedPath(ctx context.Context, query string) ([]string, string) {
	candidates, err := s.collector.Simplified(ctx, query)
	if err != nil {
		s.logger.Warn("simplified query failed, using static fallback",
			zap.String("query", query), zap.Error(err))
		return s.staticFallback(query), "static"
	}

	list := domain.Rank(candidates, query, s.weights, s.limit)
	if len(list) < backfillThreshold {
		for _, kw := range s.popular.Containing(query) {
			candidates = append(candidates, domain.Candidate{
				Text:   kw,
				Source: domain.SourceVariant,
			})
		}
		list = domain.Rank(candidates, query, s.weights, s.limit)
	}
	return list, "simplified"
}

// staticFallback ranks the static mock-suggestion list plus popular
// keywords against the query. No I/O; cannot fail.
func (s *Service) staticFallback(query string) []string {
	var candidates []domain.Candidate
	for _, t := range s.fallback.Overlapping(query) {
		candidates = append(candidates, domain.Candidate{Text: t, Source: domain.SourceFeatured})
	}
	for _, kw := range s.popular.Overlapping(query) {
		candidates = append(candidates, domain.Candidate{Text: kw, Source: domain.SourceVariant})
	}
	return domain.Rank(candidates, query, s.weights, s.limit)
}

// trendingPath serves queries too short to search: trending keywords
// matching the query as a prefix, then top recorded queries (best-effort),
// then the rest of the curated set. query is already normalized.
func (s *Service) trendingPath(ctx context.Context, query string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(text string) {
		if len(out) >= s.limit {
			return
		}
		if utf8.RuneCountInString(text) <= 2 {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}

	if query != "" {
		for _, kw := range s.trending.PrefixMatches(query) {
			add(kw)
		}
	}

	entries, err := s.history.TopQueries(ctx, query, s.limit)
	if err != nil {
		s.logger.Warn("history unavailable for trending path", zap.Error(err))
	}
	for _, e := range entries {
		add(e.Query)
	}
	for _, kw := range s.trending.All() {
		add(kw)
	}
	return out
}

// cacheKey maps a query to its cache key: the trimmed normalized form,
// with the empty query pinned to the dedicated trending key.
func cacheKey(query string) string {
	nq := normalize.String(query)
	if nq == "" {
		return domain.TrendingCacheKey
	}
	return nq
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (s *Service) incPath(path string) {
	if s.pathTotal != nil {
		s.pathTotal.WithLabelValues(path).Inc()
	}
}
