package search

import "strings"

// Product categories inferred from catalog text. Deal scores are relative
// within a category so a cheap cable never outscores a fairly priced laptop.
const (
	CategoryComputers   = "computers"
	CategoryPhones      = "phones"
	CategoryAudio       = "audio"
	CategoryGaming      = "gaming"
	CategoryKids        = "kids"
	CategoryAccessories = "accessories"
	CategoryGeneral     = "general"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryComputers, []string{"laptop", "notebook", "computer", "macbook", "מחשב", "נייד"}},
	{CategoryPhones, []string{"phone", "smartphone", "iphone", "galaxy", "טלפון", "פלאפון", "סמארטפון"}},
	{CategoryAudio, []string{"headphone", "earbud", "speaker", "audio", "אוזניות", "רמקול"}},
	{CategoryGaming, []string{"gaming", "console", "playstation", "xbox", "nintendo", "game", "גיימינג", "משחק"}},
	{CategoryKids, []string{"kids", "children", "toy", "ילדים", "צעצוע"}},
	{CategoryAccessories, []string{"keyboard", "mouse", "monitor", "cable", "charger", "מקלדת", "עכבר", "מסך", "מטען"}},
}

var categoryLabels = map[string]string{
	CategoryComputers:   "Computers",
	CategoryPhones:      "Phones & Mobile",
	CategoryAudio:       "Audio",
	CategoryGaming:      "Gaming",
	CategoryKids:        "Kids",
	CategoryAccessories: "Accessories",
	CategoryGeneral:     "General",
}

// Classify infers a category from a product's title, type, and vendor.
func Classify(title, productType, vendor string) string {
	haystack := strings.ToLower(title + " " + productType + " " + vendor)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(haystack, kw) {
				return group.category
			}
		}
	}
	return CategoryGeneral
}

// StoreLabel returns the human-facing department label for a product.
func StoreLabel(title, productType, vendor string) string {
	return categoryLabels[Classify(title, productType, vendor)]
}
