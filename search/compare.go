package search

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/contract"
	storex "github.com/storepilot/storepilot/store"
)

// StoreComparison is one store's slice of a cross-store price comparison.
type StoreComparison struct {
	StoreID      string              `json:"store_id"`
	StoreName    string              `json:"store_name"`
	ProductCount int                 `json:"product_count"`
	MinPrice     float64             `json:"min_price"`
	MaxPrice     float64             `json:"max_price"`
	AvgPrice     float64             `json:"avg_price"`
	Products     []contractx.Product `json:"products"`
}

const compareSampleSize = 5

// Compare runs the raw term against every store and returns per-store
// price statistics keyed by store id. Stores that fail or return nothing
// are omitted rather than failing the comparison.
func (a *Aggregator) Compare(ctx context.Context, term string, reg *storex.Registry) map[string]StoreComparison {
	handles := reg.Handles()
	result := make(map[string]StoreComparison, len(handles))
	if len(handles) == 0 {
		return result
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, handle := range handles {
		wg.Add(1)
		go func(h *storex.Handle) {
			defer wg.Done()

			products, err := a.SearchStore(ctx, term, h)
			if err != nil {
				log.Warn().Err(err).
					Str("store_id", h.ID).
					Str("term", term).
					Msg("store comparison search failed, omitting store")
				return
			}
			if len(products) == 0 {
				return
			}

			cmp := StoreComparison{
				StoreID:   h.ID,
				StoreName: h.DisplayName,
			}
			var total float64
			for i, p := range products {
				price := ParsePrice(p.Price)
				total += price
				if i == 0 || price < cmp.MinPrice {
					cmp.MinPrice = price
				}
				if price > cmp.MaxPrice {
					cmp.MaxPrice = price
				}
			}
			cmp.ProductCount = len(products)
			cmp.AvgPrice = total / float64(len(products))
			if len(products) > compareSampleSize {
				products = products[:compareSampleSize]
			}
			cmp.Products = products

			mu.Lock()
			result[h.ID] = cmp
			mu.Unlock()
		}(handle)
	}
	wg.Wait()

	return result
}
