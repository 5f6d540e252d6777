package search

import "strings"

// dictEntry maps a substring of the user query to one extra search term.
// Shopify title search is literal, so Hebrew queries miss English-titled
// catalog items (and vice versa) without this expansion.
type dictEntry struct {
	match  string
	expand string
}

// Entries are matched in order; iteration order is part of the contract
// (the expanded term list is deterministic), which is why this is a slice
// and not a map.
var defaultDictionary = []dictEntry{
	{"מחשב נייד", "laptop"},
	{"מחשב", "computer"},
	{"נייד", "laptop"},
	{"טלפון", "phone"},
	{"פלאפון", "smartphone"},
	{"סמארטפון", "smartphone"},
	{"אוזניות", "headphones"},
	{"מסך", "monitor"},
	{"מקלדת", "keyboard"},
	{"עכבר", "mouse"},
	{"טאבלט", "tablet"},
	{"מצלמה", "camera"},
	{"שעון", "watch"},
	{"רמקול", "speaker"},
	{"ילדים", "kids"},
	{"משחק", "game"},
	{"גיימינג", "gaming"},
	{"laptop", "notebook"},
	{"phone", "smartphone"},
}

// Expander turns one raw query into an ordered list of search terms.
type Expander struct {
	dictionary []dictEntry
}

func NewExpander() *Expander {
	return &Expander{dictionary: defaultDictionary}
}

// Expand returns the verbatim query first, followed by every dictionary
// expansion whose key appears in the query (case-insensitive), each at most
// once. Always returns at least one element.
func (e *Expander) Expand(query string) []string {
	terms := []string{query}
	seen := map[string]struct{}{strings.ToLower(query): {}}

	lowered := strings.ToLower(query)
	for _, entry := range e.dictionary {
		if !strings.Contains(lowered, entry.match) {
			continue
		}
		key := strings.ToLower(entry.expand)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, entry.expand)
	}

	return terms
}
