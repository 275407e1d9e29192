// Package db defines the storage contract the suggestion repositories
// depend on, decoupled from the concrete Redis client.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	Searcher
	HashStore
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TextQuery describes an FT.SEARCH text query.
type TextQuery struct {
	IndexName    string
	Query        string
	ReturnFields []string
	Limit        int
}

// SearchEntry is one FT.SEARCH hit.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// SearchResult holds FT.SEARCH hits.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// IndexDefinition describes an FT index over hash keys with TEXT fields.
type IndexDefinition struct {
	Name       string
	Prefix     string
	TextFields []string
	TagFields  []string
}

// Searcher provides full-text search over FT indexes. Backends without the
// search module report it via SupportsTextSearch and fail SearchText.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	EnsureIndex(ctx context.Context, def *IndexDefinition) error
	SupportsTextSearch(ctx context.Context) bool
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	ScanHashes(ctx context.Context, pattern string, limit int) ([]SearchEntry, error)
}

// ZMember is a sorted-set member with its score.
type ZMember struct {
	Member string
	Score  float64
}

// SortedSetStore provides sorted-set operations for the query log.
type SortedSetStore interface {
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZTop(ctx context.Context, key string, limit int) ([]ZMember, error)
}
