// Package keywords holds the static trending/popular keyword sets loaded at
// process start. Sets are read-only after construction and safe for
// concurrent use.
package keywords

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/kailas-cloud/typeahead/internal/domain/normalize"
)

// Set is a read-only keyword list indexed by normalized form.
type Set struct {
	terms []term
	trie  *patricia.Trie
}

type term struct {
	raw  string
	norm string
}

// New builds a Set from raw keywords. Blank and duplicate (by normalized
// form) entries are dropped; first occurrence wins.
func New(raw []string) *Set {
	s := &Set{trie: patricia.NewTrie()}
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		n := normalize.String(kw)
		if n == "" {
			continue
		}
		if item := s.trie.Get(patricia.Prefix(n)); item != nil {
			continue
		}
		s.trie.Insert(patricia.Prefix(n), kw)
		s.terms = append(s.terms, term{raw: kw, norm: n})
	}
	return s
}

// All returns the keywords in insertion order.
func (s *Set) All() []string {
	out := make([]string, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.raw
	}
	return out
}

// Len returns the number of keywords in the set.
func (s *Set) Len() int { return len(s.terms) }

// PrefixMatches returns keywords whose normalized form starts with the
// normalized query, in trie order.
func (s *Set) PrefixMatches(query string) []string {
	nq := normalize.String(query)
	if nq == "" {
		return nil
	}
	var out []string
	_ = s.trie.VisitSubtree(patricia.Prefix(nq), func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(string))
		return nil
	})
	return out
}

// Overlapping returns keywords whose normalized form contains, or is
// contained by, the normalized query. Insertion order is preserved.
func (s *Set) Overlapping(query string) []string {
	nq := normalize.String(query)
	if nq == "" {
		return nil
	}
	var out []string
	for _, t := range s.terms {
		if strings.Contains(t.norm, nq) || strings.Contains(nq, t.norm) {
			out = append(out, t.raw)
		}
	}
	return out
}

// Containing returns keywords whose normalized form contains the normalized
// query as a substring.
func (s *Set) Containing(query string) []string {
	nq := normalize.String(query)
	if nq == "" {
		return nil
	}
	var out []string
	for _, t := range s.terms {
		if strings.Contains(t.norm, nq) {
			out = append(out, t.raw)
		}
	}
	return out
}
