package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

func countBySource(cands []domain.Candidate) map[domain.Source]int {
	out := make(map[domain.Source]int)
	for _, c := range cands {
		out[c.Source]++
	}
	return out
}

func hasText(cands []domain.Candidate, text string) bool {
	for _, c := range cands {
		if c.Text == text {
			return true
		}
	}
	return false
}

func TestCollectorRichGathersAllSources(t *testing.T) {
	catalog := &mockCatalog{richProducts: []domain.Product{
		{Name: "iPhone 15 Pro Max 256GB", CategoryName: "Điện thoại"},
		{Name: "Ốp lưng iPhone 15", CategoryName: "Phụ kiện"},
		{Name: "iPhone 15 Plus", CategoryName: "Điện thoại"},
	}}
	history := &mockHistory{entries: []domain.HistoryEntry{
		{Query: "iphone 15 pro", Count: 9},
	}}
	c := NewCollector(catalog, history, testTrending(t), testPopular(t))

	got, err := c.Rich(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("Rich: %v", err)
	}

	counts := countBySource(got)
	if counts[domain.SourceProduct] != 3 {
		t.Errorf("product candidates = %d, want 3", counts[domain.SourceProduct])
	}
	// Two distinct categories, compounded once each.
	if counts[domain.SourceCategory] != 2 {
		t.Errorf("category candidates = %d, want 2", counts[domain.SourceCategory])
	}
	if counts[domain.SourceHistory] != 1 {
		t.Errorf("history candidates = %d, want 1", counts[domain.SourceHistory])
	}
	if counts[domain.SourceTrending] != 1 {
		t.Errorf("trending candidates = %d, want 1", counts[domain.SourceTrending])
	}

	for _, want := range []string{
		"iphone 15 Điện thoại",
		"iphone 15 Phụ kiện",
		"Mua iphone 15",
		"iphone 15 giá rẻ",
		"iPhone 15 Pro Max",
	} {
		if !hasText(got, want) {
			t.Errorf("candidates missing %q", want)
		}
	}
}

func TestCollectorRichPropagatesCatalogFault(t *testing.T) {
	catalog := &mockCatalog{richErr: domain.ErrQueryModeUnsupported}
	c := NewCollector(catalog, &mockHistory{}, testTrending(t), testPopular(t))

	_, err := c.Rich(context.Background(), "laptop")
	if !errors.Is(err, domain.ErrQueryModeUnsupported) {
		t.Errorf("err = %v, want ErrQueryModeUnsupported", err)
	}
}

func TestCollectorRichPropagatesHistoryFault(t *testing.T) {
	history := &mockHistory{err: domain.ErrSourceUnavailable}
	c := NewCollector(&mockCatalog{}, history, testTrending(t), testPopular(t))

	_, err := c.Rich(context.Background(), "laptop")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestCollectorSimplifiedProductsOnly(t *testing.T) {
	catalog := &mockCatalog{scanProducts: []domain.Product{
		{Name: "Laptop Dell XPS 13", CategoryName: "Laptop"},
	}}
	c := NewCollector(catalog, &mockHistory{}, testTrending(t), testPopular(t))

	got, err := c.Simplified(context.Background(), "Laptop")
	if err != nil {
		t.Fatalf("Simplified: %v", err)
	}
	if len(got) != 1 || got[0].Source != domain.SourceProduct {
		t.Fatalf("candidates = %+v, want single product candidate", got)
	}
	if catalog.richCalls.Load() != 0 || catalog.scanCalls.Load() != 1 {
		t.Errorf("rich=%d scan=%d, want the case-sensitive query shape only",
			catalog.richCalls.Load(), catalog.scanCalls.Load())
	}
}

func TestCollectorVariantsGatedForShortQueries(t *testing.T) {
	c := NewCollector(&mockCatalog{}, &mockHistory{}, testTrending(t), testPopular(t))

	got, err := c.Rich(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Rich: %v", err)
	}
	if hasText(got, "Mua abc") || hasText(got, "abc giá rẻ") {
		t.Errorf("short query produced intent variants: %+v", got)
	}
}

func TestCollectorPopularCompounds(t *testing.T) {
	c := NewCollector(&mockCatalog{}, &mockHistory{}, testTrending(t), testPopular(t))

	// "nghe" overlaps the popular keyword "tai nghe" without containing it,
	// so the compound is synthesized.
	got, err := c.Rich(context.Background(), "nghe")
	if err != nil {
		t.Fatalf("Rich: %v", err)
	}
	if !hasText(got, "nghe tai nghe") {
		t.Errorf("missing popular compound, got %+v", got)
	}

	// A query already containing the keyword must not repeat it.
	got, err = c.Rich(context.Background(), "tai nghe bluetooth")
	if err != nil {
		t.Fatalf("Rich: %v", err)
	}
	if hasText(got, "tai nghe bluetooth tai nghe") {
		t.Errorf("keyword repeated into its own query: %+v", got)
	}
}
