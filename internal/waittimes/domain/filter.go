package domain

import "strings"

// FilterByCategory returns the records in the given category. It is a pure
// view: the input is never modified, record order is preserved, and the
// same selection always yields the same result. The "all" selector (or an
// empty one) returns the complete input.
func FilterByCategory(records []RenderableRecord, slug string) []RenderableRecord {
	folded := strings.ToLower(strings.TrimSpace(slug))
	if folded == "" || folded == CategoryAll {
		return records
	}

	filtered := make([]RenderableRecord, 0, len(records))
	for _, r := range records {
		if r.CategorySlug == folded {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByCountry returns the records for one country, matched
// case-insensitively. An empty country returns the complete input.
func FilterByCountry(records []RenderableRecord, country string) []RenderableRecord {
	folded := strings.ToLower(strings.TrimSpace(country))
	if folded == "" {
		return records
	}

	filtered := make([]RenderableRecord, 0, len(records))
	for _, r := range records {
		if strings.ToLower(r.Country) == folded {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
