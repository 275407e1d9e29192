package redis

import (
	"context"

	"github.com/kailas-cloud/typeahead/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// ScanHashes walks keys matching pattern and loads each hash, stopping once
// limit entries are collected. This is the search path for backends without
// the FT module.
func (s *Store) ScanHashes(ctx context.Context, pattern string, limit int) ([]db.SearchEntry, error) {
	var entries []db.SearchEntry
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}

		for _, key := range res.Elements {
			fields, err := s.HGetAll(ctx, key)
			if err != nil {
				return nil, err
			}
			entries = append(entries, db.SearchEntry{Key: key, Fields: fields})
			if limit > 0 && len(entries) >= limit {
				return entries, nil
			}
		}

		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return entries, nil
}
