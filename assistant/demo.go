package assistant

import (
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/contract"
)

// demoTemplate is one canned reply, selected by query keywords. Matched in
// order; the first hit wins.
type demoTemplate struct {
	keywords []string
	format   string
}

var demoTemplates = []demoTemplate{
	{
		keywords: []string{"laptop", "notebook", "computer", "מחשב", "נייד"},
		format:   "Looking for a laptop? I found %d matching products across %d stores, priced between %.2f and %.2f. The list is sorted cheapest first, so the top results are your best value.",
	},
	{
		keywords: []string{"phone", "smartphone", "טלפון", "פלאפון"},
		format:   "I found %d phones and mobile devices across %d stores, ranging from %.2f to %.2f. Compare the store column to see who has the best price.",
	},
	{
		keywords: []string{"kids", "children", "toy", "ילדים", "צעצוע"},
		format:   "For the kids I found %d products in %d stores, from %.2f up to %.2f. The cheaper options are at the top of the list.",
	},
	{
		keywords: []string{"gaming", "game", "console", "גיימינג", "משחק"},
		format:   "Gamers rejoice: %d gaming products across %d stores, priced %.2f to %.2f. Check the deal scores for the best value picks.",
	},
}

const (
	demoDefaultFormat = "I found %d products matching your search across %d connected stores, priced between %.2f and %.2f. Results are sorted by price, cheapest first."
	demoEmptyFormat   = "I couldn't find any products matching %q in the %d connected stores. Try a different search term or connect more stores."
)

// DemoResponse is the deterministic fallback used when no AI provider is
// configured or the provider call fails. It never errors and never makes a
// network call.
func DemoResponse(query string, products []contractx.Product, stats contractx.StoreStats) string {
	if len(products) == 0 {
		return fmt.Sprintf(demoEmptyFormat, query, stats.StoreCount)
	}

	lowered := strings.ToLower(query)
	for _, tpl := range demoTemplates {
		for _, kw := range tpl.keywords {
			if strings.Contains(lowered, kw) {
				return fmt.Sprintf(tpl.format, stats.ProductCount, stats.StoreCount, stats.MinPrice, stats.MaxPrice)
			}
		}
	}
	return fmt.Sprintf(demoDefaultFormat, stats.ProductCount, stats.StoreCount, stats.MinPrice, stats.MaxPrice)
}
