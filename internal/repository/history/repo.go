// Package history adapts the recorded query log into the suggestion
// engine's SearchHistoryStore collaborator.
package history

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/typeahead/internal/db"
	"github.com/kailas-cloud/typeahead/internal/domain"
)

const (
	countsKey   = domain.KeyPrefix + "history:queries"
	lastSeenKey = domain.KeyPrefix + "history:last_seen"

	// fetchDepth is how far down the count ranking we look before
	// filtering by pattern client-side.
	fetchDepth = 200
)

// store is the consumer interface for history operations (ISP).
type store interface {
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZTop(ctx context.Context, key string, limit int) ([]db.ZMember, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements suggest.HistoryStore over a count-ordered sorted set plus
// a last-seen hash for recency tie-breaks.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a history repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// TopQueries returns up to limit recorded queries matching pattern as a
// case-insensitive prefix or substring, ordered by count then recency.
// An empty pattern returns the overall top queries.
func (r *Repo) TopQueries(ctx context.Context, pattern string, limit int) ([]domain.HistoryEntry, error) {
	members, err := r.store.ZTop(ctx, countsKey, fetchDepth)
	if err != nil {
		return nil, fmt.Errorf("history top: %w: %w", domain.ErrSourceUnavailable, err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	lastSeen, err := r.store.HGetAll(ctx, lastSeenKey)
	if err != nil {
		// Recency only breaks ties; counts alone are still a valid ordering.
		lastSeen = nil
	}

	needle := strings.ToLower(strings.TrimSpace(pattern))
	type ranked struct {
		entry domain.HistoryEntry
		seen  int64
	}
	var hits []ranked
	for _, m := range members {
		if needle != "" && !strings.Contains(strings.ToLower(m.Member), needle) {
			continue
		}
		var seen int64
		if ts, ok := lastSeen[m.Member]; ok {
			seen, _ = strconv.ParseInt(ts, 10, 64)
		}
		hits = append(hits, ranked{
			entry: domain.HistoryEntry{Query: m.Member, Count: int64(m.Score)},
			seen:  seen,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].entry.Count != hits[j].entry.Count {
			return hits[i].entry.Count > hits[j].entry.Count
		}
		return hits[i].seen > hits[j].seen
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.HistoryEntry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out, nil
}

// Record bumps the count for query and stamps its last-seen time.
func (r *Repo) Record(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if err := r.store.ZIncrBy(ctx, countsKey, query, 1); err != nil {
		return fmt.Errorf("history record %q: %w: %w", query, domain.ErrSourceUnavailable, err)
	}
	ts := strconv.FormatInt(r.now().Unix(), 10)
	if err := r.store.HSet(ctx, lastSeenKey, map[string]string{query: ts}); err != nil {
		return fmt.Errorf("history stamp %q: %w: %w", query, domain.ErrSourceUnavailable, err)
	}
	return nil
}
