package suggest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/keywords"
)

// --- Mocks ---

type mockCatalog struct {
	richProducts []domain.Product
	richErr      error
	scanProducts []domain.Product
	scanErr      error

	richCalls atomic.Int64
	scanCalls atomic.Int64
	delay     time.Duration
}

func (m *mockCatalog) Search(
	_ context.Context, _ string, caseInsensitive bool, _ int,
) ([]domain.Product, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if caseInsensitive {
		m.richCalls.Add(1)
		return m.richProducts, m.richErr
	}
	m.scanCalls.Add(1)
	return m.scanProducts, m.scanErr
}

func (m *mockCatalog) calls() int64 {
	return m.richCalls.Load() + m.scanCalls.Load()
}

type mockHistory struct {
	entries []domain.HistoryEntry
	err     error

	topCalls atomic.Int64

	mu       sync.Mutex
	recorded []string
}

func (m *mockHistory) TopQueries(_ context.Context, _ string, _ int) ([]domain.HistoryEntry, error) {
	m.topCalls.Add(1)
	return m.entries, m.err
}

func (m *mockHistory) Record(_ context.Context, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, query)
	return nil
}

type mockCache struct {
	mu   sync.Mutex
	m    map[string][]string
	puts int
}

func newMockCache() *mockCache {
	return &mockCache{m: make(map[string][]string)}
}

func (c *mockCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mockCache) Put(key string, suggestions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = suggestions
	c.puts++
}

// --- Fixtures ---

func testTrending(t *testing.T) *keywords.Set {
	t.Helper()
	return keywords.New([]string{"iPhone 15 Pro Max", "Laptop gaming", "Robot hút bụi"})
}

func testPopular(t *testing.T) *keywords.Set {
	t.Helper()
	return keywords.New([]string{"điện thoại", "laptop", "tai nghe", "giá rẻ", "chính hãng"})
}

func testFallback(t *testing.T) *keywords.Set {
	t.Helper()
	return keywords.New([]string{"iPhone 15", "Laptop Dell XPS", "Tai nghe AirPods", "Tivi Samsung 55 inch"})
}

func newTestService(
	t *testing.T, catalog *mockCatalog, history *mockHistory,
) (*Service, *mockCache) {
	t.Helper()
	trending := testTrending(t)
	popular := testPopular(t)
	collector := NewCollector(catalog, history, trending, popular)
	c := newMockCache()
	svc := New(c, collector, history, trending, popular, testFallback(t), zap.NewNop())
	return svc, c
}
