package search

import (
	contractx "github.com/storepilot/storepilot/contract"
)

// ScoreDeals annotates each product with a deal score in [0,1], normalized
// against the cheapest and priciest products in the same inferred category:
// score = 1 - (price-min)/(max-min). When every product in a category costs
// the same (or the category has a single product) everything scores 1.
func ScoreDeals(products []contractx.Product) []contractx.ScoredProduct {
	type bounds struct {
		min float64
		max float64
		set bool
	}

	byCategory := make(map[string]*bounds)
	for _, p := range products {
		cat := Classify(p.Title, p.ProductType, p.Vendor)
		price := ParsePrice(p.Price)
		b, ok := byCategory[cat]
		if !ok {
			byCategory[cat] = &bounds{min: price, max: price, set: true}
			continue
		}
		if price < b.min {
			b.min = price
		}
		if price > b.max {
			b.max = price
		}
	}

	scored := make([]contractx.ScoredProduct, 0, len(products))
	for _, p := range products {
		cat := Classify(p.Title, p.ProductType, p.Vendor)
		b := byCategory[cat]
		score := 1.0
		if b != nil && b.max > b.min {
			score = 1 - (ParsePrice(p.Price)-b.min)/(b.max-b.min)
		}
		scored = append(scored, contractx.ScoredProduct{Product: p, DealScore: score})
	}
	return scored
}
