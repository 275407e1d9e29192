package domain

// Source identifies where a suggestion candidate came from.
type Source string

// Candidate sources.
const (
	// SourceProduct comes from product name/description matches.
	SourceProduct Source = "product"
	// SourceCategory is a query+category compound.
	SourceCategory Source = "category"
	// SourceHistory comes from the recorded query log.
	SourceHistory Source = "history"
	// SourceTrending comes from the curated trending keyword set.
	SourceTrending Source = "trending"
	// SourceFeatured is a promoted/editorial suggestion.
	SourceFeatured Source = "featured"
	// SourceVariant is a synthesized buying-intent or keyword compound.
	SourceVariant Source = "variant"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	switch s {
	case SourceProduct, SourceCategory, SourceHistory,
		SourceTrending, SourceFeatured, SourceVariant:
		return true
	}
	return false
}

// Candidate is an unscored suggestion string plus its originating source.
// Text preserves the original casing for display.
type Candidate struct {
	Text   string
	Source Source
}

// ScoredCandidate pairs a candidate with its relevance score.
type ScoredCandidate struct {
	Candidate
	Score int
}

// Product is the slice of a catalog item the suggestion engine reads.
type Product struct {
	Name         string
	CategoryName string
}

// HistoryEntry is a recorded query with its observed frequency.
type HistoryEntry struct {
	Query string
	Count int64
}
