package search

import (
	"context"
	"errors"
	"testing"

	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
	storex "github.com/storepilot/storepilot/store"
)

func TestCompareBuildsPerStoreStats(t *testing.T) {
	t.Parallel()

	healthy := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return []shopifyx.Product{product(1, "Laptop A", "100"), product(2, "Laptop B", "200")}, nil
	}}
	broken := &fakeClient{searchFn: func(string, int) ([]shopifyx.Product, error) {
		return nil, errors.New("timeout")
	}}
	reg := registryWith(t, map[string]storex.Client{"healthy": healthy, "broken": broken})

	got := NewAggregator().Compare(context.Background(), "laptop", reg)

	if len(got) != 1 {
		t.Fatalf("Compare() returned %d stores, want 1 (failed store omitted): %+v", len(got), got)
	}
	for _, cmp := range got {
		if cmp.ProductCount != 2 {
			t.Fatalf("ProductCount = %d, want 2", cmp.ProductCount)
		}
		if cmp.MinPrice != 100 || cmp.MaxPrice != 200 || cmp.AvgPrice != 150 {
			t.Fatalf("price stats = min %v max %v avg %v, want 100/200/150", cmp.MinPrice, cmp.MaxPrice, cmp.AvgPrice)
		}
	}
}

func TestCompareEmptyRegistry(t *testing.T) {
	t.Parallel()

	got := NewAggregator().Compare(context.Background(), "laptop", storex.NewRegistry())
	if len(got) != 0 {
		t.Fatalf("Compare() on empty registry = %+v, want empty map", got)
	}
}
