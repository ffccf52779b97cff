package view

import "strings"

// CategoryAll is the sentinel that disables the category filter.
const CategoryAll = "All"

// SearchScope selects which fields a substring search runs against.
type SearchScope int

const (
	// ScopeAll matches against the stringified whole row, so price and
	// turnaround text participate in the match.
	ScopeAll SearchScope = iota
	// ScopeItemNotes restricts the match to the item and notes fields.
	ScopeItemNotes
)

// ParseScope maps the config value to a scope, defaulting to ScopeAll.
func ParseScope(s string) SearchScope {
	if s == "item_notes" {
		return ScopeItemNotes
	}
	return ScopeAll
}

// Filter derives a view by category equality and case-insensitive substring
// search. Surviving entries keep their original sheet row numbers. An empty
// or "All" category and an empty query are both identity.
func Filter(entries []Entry, category, query string, scope SearchScope) []Entry {
	if (category == "" || category == CategoryAll) && query == "" {
		return entries
	}

	needle := strings.ToLower(query)
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if category != "" && category != CategoryAll && e.Record.Category != category {
			continue
		}
		if needle != "" && !matches(e.Record, needle, scope) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func matches(r ServiceRecord, needle string, scope SearchScope) bool {
	var haystack string
	switch scope {
	case ScopeItemNotes:
		haystack = r.Item + " " + r.Notes
	default:
		haystack = strings.Join([]string{r.Category, r.Item, r.PriceString(), r.Turnaround, r.Notes}, " ")
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}
