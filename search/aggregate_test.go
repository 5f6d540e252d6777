package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
	storex "github.com/storepilot/storepilot/store"
)

type fakeClient struct {
	mu       sync.Mutex
	searchFn func(query string, limit int) ([]shopifyx.Product, error)
	calls    int
}

func (f *fakeClient) SearchProducts(_ context.Context, query string, limit int) ([]shopifyx.Product, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.searchFn(query, limit)
}

func (f *fakeClient) ListProducts(_ context.Context, limit int) ([]shopifyx.Product, error) {
	return f.searchFn("", limit)
}

func (f *fakeClient) GetProduct(context.Context, int64) (*shopifyx.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) ListOrders(context.Context, int, string) ([]shopifyx.Order, error) {
	return nil, nil
}

func (f *fakeClient) CreateOrder(context.Context, shopifyx.OrderDraft) (*shopifyx.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Ping(context.Context) error {
	return nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func product(id int64, title, price string) shopifyx.Product {
	return shopifyx.Product{
		ID:       id,
		Title:    title,
		Variants: []shopifyx.Variant{{ID: id * 10, Price: price}},
	}
}

// registryWith wires fake clients into a registry keyed by store URL.
func registryWith(t *testing.T, clients map[string]storex.Client) *storex.Registry {
	t.Helper()

	reg := storex.NewRegistry(storex.WithDialer(func(cfg shopifyx.Config) (storex.Client, error) {
		client, ok := clients[cfg.URL]
		if !ok {
			t.Fatalf("no fake client for url %q", cfg.URL)
		}
		return client, nil
	}))
	for url := range clients {
		if _, err := reg.Connect(context.Background(), url, url, "token"); err != nil {
			t.Fatalf("Connect(%q) error = %v", url, err)
		}
	}
	return reg
}

func TestSearchMergesAndSortsByPrice(t *testing.T) {
	t.Parallel()

	store1 := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return []shopifyx.Product{product(1, "Pricey", "50"), product(2, "Cheap", "10")}, nil
	}}
	store2 := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return nil, errors.New("store is down")
	}}
	reg := registryWith(t, map[string]storex.Client{"store1": store1, "store2": store2})

	got := NewAggregator().Search(context.Background(), "x", reg)

	if len(got) != 2 {
		t.Fatalf("Search() returned %d products, want 2 (dead store must not block results): %+v", len(got), got)
	}
	if got[0].ID != "2" || got[0].Price != "10" {
		t.Fatalf("Search()[0] = %+v, want cheapest product first", got[0])
	}
	if got[1].ID != "1" || got[1].Price != "50" {
		t.Fatalf("Search()[1] = %+v, want priciest product last", got[1])
	}
}

func TestSearchDedupesPerStoreAcrossTerms(t *testing.T) {
	t.Parallel()

	overlap := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return []shopifyx.Product{product(7, "Laptop", "99")}, nil
	}}
	reg := registryWith(t, map[string]storex.Client{"store1": overlap})

	// "laptop" expands to a second term, so the store is queried twice and
	// returns the same id both times.
	got := NewAggregator().Search(context.Background(), "laptop", reg)

	if overlap.callCount() < 2 {
		t.Fatalf("expected multiple term queries, got %d", overlap.callCount())
	}
	if len(got) != 1 {
		t.Fatalf("Search() returned %d products, want 1 after per-store dedup: %+v", len(got), got)
	}
}

func TestSearchSameIDFromDifferentStoresKept(t *testing.T) {
	t.Parallel()

	mk := func(price string) *fakeClient {
		return &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
			return []shopifyx.Product{product(42, "Synced item", price)}, nil
		}}
	}
	reg := registryWith(t, map[string]storex.Client{"storeA": mk("20"), "storeB": mk("30")})

	got := NewAggregator().Search(context.Background(), "x", reg)
	if len(got) != 2 {
		t.Fatalf("Search() returned %d products, want 2 separate offers for the same catalog id: %+v", len(got), got)
	}
	if got[0].StoreID == got[1].StoreID {
		t.Fatalf("both offers attributed to the same store: %+v", got)
	}
}

func TestSearchEmptyRegistry(t *testing.T) {
	t.Parallel()

	got := NewAggregator().Search(context.Background(), "anything", storex.NewRegistry())
	if got == nil {
		t.Fatal("Search() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Search() returned %d products from empty registry, want 0", len(got))
	}
}

func TestSearchStoreUsesRawQueryOnly(t *testing.T) {
	t.Parallel()

	var gotQueries []string
	var mu sync.Mutex
	client := &fakeClient{searchFn: func(query string, _ int) ([]shopifyx.Product, error) {
		mu.Lock()
		gotQueries = append(gotQueries, query)
		mu.Unlock()
		return []shopifyx.Product{product(1, "Laptop", "100")}, nil
	}}
	reg := registryWith(t, map[string]storex.Client{"store1": client})

	handle, err := reg.Get(reg.List()[0].ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if _, err := NewAggregator().SearchStore(context.Background(), "laptop", handle); err != nil {
		t.Fatalf("SearchStore() error = %v", err)
	}
	if len(gotQueries) != 1 || gotQueries[0] != "laptop" {
		t.Fatalf("SearchStore() queries = %v, want only the raw query", gotQueries)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	store1 := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return []shopifyx.Product{product(1, "A", "50"), product(2, "B", "10")}, nil
	}}
	reg := registryWith(t, map[string]storex.Client{"store1": store1})

	products := NewAggregator().Search(context.Background(), "x", reg)
	stats := Stats(products, reg.Len())

	if stats.ProductCount != 2 || stats.StoreCount != 1 {
		t.Fatalf("Stats() = %+v, want 2 products across 1 store", stats)
	}
	if stats.MinPrice != 10 || stats.MaxPrice != 50 {
		t.Fatalf("Stats() price bounds = %v..%v, want 10..50", stats.MinPrice, stats.MaxPrice)
	}
}
