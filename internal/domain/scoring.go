package domain

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/typeahead/internal/domain/normalize"
)

// Weights holds the additive scoring deltas. The relative ordering
// (exact > prefix > token > substring > folded variants) is the contract;
// the magnitudes are tunable.
type Weights struct {
	Exact               int `yaml:"exact"`
	NormalizedExact     int `yaml:"normalized_exact"`
	Prefix              int `yaml:"prefix"`
	NormalizedPrefix    int `yaml:"normalized_prefix"`
	Token               int `yaml:"token"`
	Substring           int `yaml:"substring"`
	NormalizedSubstring int `yaml:"normalized_substring"`
	BuyingIntent        int `yaml:"buying_intent"`
	TrendingBoost       int `yaml:"trending_boost"`
	FeaturedBoost       int `yaml:"featured_boost"`
	// LengthPenaltyDivisor and LengthPenaltyCap shape the per-candidate
	// penalty min(runeCount/divisor, cap) that favors shorter matches.
	LengthPenaltyDivisor int `yaml:"length_penalty_divisor"`
	LengthPenaltyCap     int `yaml:"length_penalty_cap"`
}

// DefaultWeights returns the production scoring table.
func DefaultWeights() Weights {
	return Weights{
		Exact:                1000,
		NormalizedExact:      900,
		Prefix:               800,
		NormalizedPrefix:     700,
		Token:                600,
		Substring:            500,
		NormalizedSubstring:  400,
		BuyingIntent:         200,
		TrendingBoost:        300,
		FeaturedBoost:        250,
		LengthPenaltyDivisor: 10,
		LengthPenaltyCap:     5,
	}
}

// Score computes the relevance of a candidate for a query. Rules are
// additive; a candidate accrues every rule it matches. Pure and
// deterministic.
func (w Weights) Score(c Candidate, query string) int {
	nq := normalize.String(query)
	nc := normalize.String(c.Text)

	score := 0
	if c.Text == query {
		score += w.Exact
	}
	if nc == nq {
		score += w.NormalizedExact
	}
	if strings.HasPrefix(c.Text, query) {
		score += w.Prefix
	}
	if strings.HasPrefix(nc, nq) {
		score += w.NormalizedPrefix
	}
	if containsToken(c.Text, query) {
		score += w.Token
	}
	if strings.Contains(c.Text, query) {
		score += w.Substring
	}
	if strings.Contains(nc, nq) {
		score += w.NormalizedSubstring
	}
	if hasBuyingIntent(c.Text) && hasBuyingIntent(query) {
		score += w.BuyingIntent
	}
	switch c.Source {
	case SourceTrending:
		score += w.TrendingBoost
	case SourceFeatured:
		score += w.FeaturedBoost
	}

	penalty := utf8.RuneCountInString(c.Text) / w.LengthPenaltyDivisor
	if penalty > w.LengthPenaltyCap {
		penalty = w.LengthPenaltyCap
	}
	return score - penalty
}

// containsToken reports whether query appears as a whole space-delimited
// token of text.
func containsToken(text, query string) bool {
	for _, tok := range strings.Fields(text) {
		if tok == query {
			return true
		}
	}
	return false
}

// hasBuyingIntent reports whether s carries one of the purchase markers.
func hasBuyingIntent(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "mua") || strings.Contains(s, "giá")
}

// Rank merges candidate lists into the public suggestion list: first-seen
// dedupe by exact text, drop texts of length <= 2, score, stable sort
// descending (ties keep collection order), truncate to limit.
func Rank(candidates []Candidate, query string, w Weights, limit int) []string {
	seen := make(map[string]struct{}, len(candidates))
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if utf8.RuneCountInString(c.Text) <= 2 {
			continue
		}
		if _, dup := seen[c.Text]; dup {
			continue
		}
		seen[c.Text] = struct{}{}
		scored = append(scored, ScoredCandidate{Candidate: c, Score: w.Score(c, query)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, len(scored))
	for i, sc := range scored {
		out[i] = sc.Text
	}
	return out
}
