package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/typeahead/internal/db"
)

// ZIncrBy increments the score of member in the sorted set at key.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, delta float64) error {
	cmd := s.b().Zincrby().Key(key).Increment(delta).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZIncrBy, Err: err}
	}
	return nil
}

// ZTop returns the limit highest-scored members, best first.
func (s *Store) ZTop(ctx context.Context, key string, limit int) ([]db.ZMember, error) {
	if limit <= 0 {
		return nil, nil
	}
	cmd := s.b().Zrange().Key(key).
		Min("0").Max(strconv.Itoa(limit - 1)).
		Rev().Withscores().Build()
	scores, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}

	out := make([]db.ZMember, len(scores))
	for i, z := range scores {
		out[i] = db.ZMember{Member: z.Member, Score: z.Score}
	}
	return out, nil
}
