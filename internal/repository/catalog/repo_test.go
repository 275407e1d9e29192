package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/typeahead/internal/db"
	"github.com/kailas-cloud/typeahead/internal/domain"
)

type mockStore struct {
	searchResult *db.SearchResult
	searchErr    error
	lastQuery    *db.TextQuery

	ensureErr error
	lastIndex *db.IndexDefinition

	scanEntries []db.SearchEntry
	scanErr     error
	lastPattern string
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	return m.searchResult, m.searchErr
}

func (m *mockStore) EnsureIndex(_ context.Context, def *db.IndexDefinition) error {
	m.lastIndex = def
	return m.ensureErr
}

func (m *mockStore) ScanHashes(_ context.Context, pattern string, _ int) ([]db.SearchEntry, error) {
	m.lastPattern = pattern
	return m.scanEntries, m.scanErr
}

func TestSearchIndexed(t *testing.T) {
	store := &mockStore{searchResult: &db.SearchResult{
		Total: 2,
		Entries: []db.SearchEntry{
			{Key: "typeahead:product:1", Fields: map[string]string{"name": "iPhone 15 Pro", "category": "Điện thoại"}},
			{Key: "typeahead:product:2", Fields: map[string]string{"name": "Ốp lưng iPhone", "category": "Phụ kiện"}},
		},
	}}
	repo := New(store)

	got, err := repo.Search(context.Background(), "iphone", true, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []domain.Product{
		{Name: "iPhone 15 Pro", CategoryName: "Điện thoại"},
		{Name: "Ốp lưng iPhone", CategoryName: "Phụ kiện"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d products, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("product[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if store.lastQuery.IndexName != indexName {
		t.Errorf("queried index %q, want %q", store.lastQuery.IndexName, indexName)
	}
	if store.lastQuery.Query != "(@name|description:*iphone*)" {
		t.Errorf("query = %q", store.lastQuery.Query)
	}
}

func TestSearchIndexedEscapesPattern(t *testing.T) {
	store := &mockStore{searchResult: &db.SearchResult{}}
	repo := New(store)

	if _, err := repo.Search(context.Background(), "tivi 55\"", true, 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if q := store.lastQuery.Query; q == "(@name|description:*tivi 55\"*)" {
		t.Errorf("special characters not escaped: %q", q)
	}
}

func TestSearchClassifiesMissingModuleAsUnsupported(t *testing.T) {
	store := &mockStore{searchErr: db.ErrSearchUnsupported}
	repo := New(store)

	_, err := repo.Search(context.Background(), "iphone", true, 10)
	if !errors.Is(err, domain.ErrQueryModeUnsupported) {
		t.Errorf("err = %v, want ErrQueryModeUnsupported", err)
	}
}

func TestSearchClassifiesOtherFaultsAsUnavailable(t *testing.T) {
	store := &mockStore{searchErr: errors.New("connection refused")}
	repo := New(store)

	_, err := repo.Search(context.Background(), "iphone", true, 10)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestSearchScanMatchesCaseSensitively(t *testing.T) {
	store := &mockStore{scanEntries: []db.SearchEntry{
		{Key: "typeahead:product:1", Fields: map[string]string{"name": "Laptop Dell XPS", "category": "Laptop"}},
		{Key: "typeahead:product:2", Fields: map[string]string{"name": "Chuột không dây", "description": "hợp với Laptop"}},
		{Key: "typeahead:product:3", Fields: map[string]string{"name": "laptop asus"}},
	}}
	repo := New(store)

	got, err := repo.Search(context.Background(), "Laptop", false, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// "laptop asus" misses: the scan path matches the raw bytes.
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Laptop Dell XPS" || got[1].Name != "Chuột không dây" {
		t.Errorf("products = %+v", got)
	}
	if store.lastPattern != productPrefix+"*" {
		t.Errorf("scanned pattern %q, want %q", store.lastPattern, productPrefix+"*")
	}
}

func TestSearchScanHonorsLimit(t *testing.T) {
	entries := make([]db.SearchEntry, 10)
	for i := range entries {
		entries[i] = db.SearchEntry{Fields: map[string]string{"name": "Laptop"}}
	}
	repo := New(&mockStore{scanEntries: entries})

	got, err := repo.Search(context.Background(), "Laptop", false, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d products, want 3", len(got))
	}
}

func TestSearchScanFaultIsUnavailable(t *testing.T) {
	repo := New(&mockStore{scanErr: errors.New("connection refused")})

	_, err := repo.Search(context.Background(), "Laptop", false, 10)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestSearchSkipsNamelessEntries(t *testing.T) {
	store := &mockStore{searchResult: &db.SearchResult{Entries: []db.SearchEntry{
		{Key: "typeahead:product:1", Fields: map[string]string{"category": "Tivi"}},
		{Key: "typeahead:product:2", Fields: map[string]string{"name": "Tivi Samsung"}},
	}}}
	repo := New(store)

	got, err := repo.Search(context.Background(), "tivi", true, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Tivi Samsung" {
		t.Errorf("products = %+v, want only the named entry", got)
	}
}

func TestEnsureIndexToleratesMissingModule(t *testing.T) {
	repo := New(&mockStore{ensureErr: db.ErrSearchUnsupported})
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Errorf("EnsureIndex: %v, want nil when the FT module is absent", err)
	}
}

func TestEnsureIndexPropagatesOtherFaults(t *testing.T) {
	repo := New(&mockStore{ensureErr: errors.New("connection refused")})
	if err := repo.EnsureIndex(context.Background()); err == nil {
		t.Error("EnsureIndex: nil error for a failing backend")
	}
}

func TestEnsureIndexDefinition(t *testing.T) {
	store := &mockStore{}
	repo := New(store)
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if store.lastIndex.Name != indexName || store.lastIndex.Prefix != productPrefix {
		t.Errorf("index definition = %+v", store.lastIndex)
	}
	if len(store.lastIndex.TextFields) != 2 {
		t.Errorf("text fields = %v, want name and description", store.lastIndex.TextFields)
	}
}
