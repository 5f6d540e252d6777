package assistant

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/contract"
)

// Adapter is one upstream completion provider. Each adapter owns its
// endpoint, request shape, auth convention, and response extraction.
// Adding a provider means registering a new adapter, not growing a branch
// chain in the dispatcher.
type Adapter interface {
	Name() Provider
	// Complete sends the prompt and returns the model's text reply.
	Complete(ctx context.Context, model, apiKey, prompt string) (string, error)
}

const maxSampleProducts = 5

// buildPrompt renders the shared natural-language prompt every provider
// receives: the user's query, up to five sample products with price and
// store, and the store count.
func buildPrompt(query string, products []contractx.Product, stats contractx.StoreStats) string {
	var b strings.Builder
	b.WriteString("You are a shopping assistant for a multi-store price comparison service.\n")
	fmt.Fprintf(&b, "The customer searched for: %q\n", query)
	fmt.Fprintf(&b, "We found %d products across %d connected stores.\n", stats.ProductCount, stats.StoreCount)
	if stats.ProductCount > 0 {
		fmt.Fprintf(&b, "Prices range from %.2f to %.2f.\n", stats.MinPrice, stats.MaxPrice)
		b.WriteString("Sample results (cheapest first):\n")
		for i, p := range products {
			if i >= maxSampleProducts {
				break
			}
			fmt.Fprintf(&b, "- %s, price %s, sold by %s\n", p.Title, p.Price, p.StoreName)
		}
	}
	b.WriteString("Reply in the customer's language with a short, friendly recommendation of the best options and where the best price is. Do not invent products.")
	return b.String()
}

// testPrompt is the minimal prompt used for connectivity checks.
const testPrompt = "Reply with the single word: ok"
