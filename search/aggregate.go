package search

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/contract"
	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
	storex "github.com/storepilot/storepilot/store"
)

const (
	defaultPerStoreLimit  = 50
	defaultPerCallTimeout = 10 * time.Second
)

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

func WithPerStoreLimit(limit int) AggregatorOption {
	return func(a *Aggregator) {
		if limit > 0 {
			a.perStoreLimit = limit
		}
	}
}

func WithPerCallTimeout(timeout time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.perCallTimeout = timeout
		}
	}
}

// Aggregator fans a search out across every registered store and merges
// the results into one price-sorted list.
type Aggregator struct {
	expander       *Expander
	perStoreLimit  int
	perCallTimeout time.Duration
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		expander:       NewExpander(),
		perStoreLimit:  defaultPerStoreLimit,
		perCallTimeout: defaultPerCallTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Search expands the query and queries every store in the registry with
// every expanded term, concurrently across stores. A product id returned
// by several terms counts once per store; identical ids from different
// stores stay separate offers. A failing store or term is logged and
// skipped — one dead store never blocks the healthy ones. The merged list
// is sorted ascending by parsed price.
func (a *Aggregator) Search(ctx context.Context, query string, reg *storex.Registry) []contractx.Product {
	handles := reg.Handles()
	if len(handles) == 0 {
		return []contractx.Product{}
	}

	terms := a.expander.Expand(query)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	merged := make([]contractx.Product, 0, len(handles)*8)

	for _, handle := range handles {
		wg.Add(1)
		go func(h *storex.Handle) {
			defer wg.Done()
			products := a.searchOneStore(ctx, h, terms)
			if len(products) == 0 {
				return
			}
			mu.Lock()
			merged = append(merged, products...)
			mu.Unlock()
		}(handle)
	}
	wg.Wait()

	sortByPrice(merged)
	return merged
}

// SearchStore queries a single store with the raw, unexpanded query.
func (a *Aggregator) SearchStore(ctx context.Context, query string, h *storex.Handle) ([]contractx.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.perCallTimeout)
	defer cancel()

	found, err := h.Client.SearchProducts(callCtx, query, a.perStoreLimit)
	if err != nil {
		return nil, err
	}

	products := make([]contractx.Product, 0, len(found))
	for _, p := range found {
		products = append(products, toProduct(p, h))
	}
	sortByPrice(products)
	return products, nil
}

// searchOneStore runs every term against one store sequentially, keeping a
// per-store seen set so overlapping term results dedupe.
func (a *Aggregator) searchOneStore(ctx context.Context, h *storex.Handle, terms []string) []contractx.Product {
	seen := make(map[int64]struct{})
	products := make([]contractx.Product, 0, a.perStoreLimit)

	for _, term := range terms {
		found, err := a.searchTerm(ctx, h, term)
		if err != nil {
			log.Warn().Err(err).
				Str("store_id", h.ID).
				Str("store", h.DisplayName).
				Str("term", term).
				Msg("store search failed, skipping term")
			continue
		}
		for _, p := range found {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			products = append(products, toProduct(p, h))
		}
	}

	return products
}

func (a *Aggregator) searchTerm(ctx context.Context, h *storex.Handle, term string) ([]shopifyx.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.perCallTimeout)
	defer cancel()
	return h.Client.SearchProducts(callCtx, term, a.perStoreLimit)
}

// Stats summarizes an aggregated result set for the assistant.
func Stats(products []contractx.Product, storeCount int) contractx.StoreStats {
	stats := contractx.StoreStats{
		StoreCount:   storeCount,
		ProductCount: len(products),
	}
	for i, p := range products {
		price := ParsePrice(p.Price)
		if i == 0 || price < stats.MinPrice {
			stats.MinPrice = price
		}
		if price > stats.MaxPrice {
			stats.MaxPrice = price
		}
	}
	return stats
}

// ParsePrice converts a decimal-as-string price to a float; anything
// unparsable counts as zero.
func ParsePrice(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	price, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return price
}

func toProduct(p shopifyx.Product, h *storex.Handle) contractx.Product {
	return contractx.Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Price:       p.FirstPrice(),
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		ImageURL:    p.ImageSrc(),
		StoreID:     h.ID,
		StoreName:   h.DisplayName,
		StoreLabel:  StoreLabel(p.Title, p.ProductType, p.Vendor),
	}
}

func sortByPrice(products []contractx.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return ParsePrice(products[i].Price) < ParsePrice(products[j].Price)
	})
}
