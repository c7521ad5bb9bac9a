// Package domain holds the visa wait-time dataset model: the published
// records, their join against the city reference, and the pure filter
// functions the API queries are built from.
package domain

import "strings"

// Category is a visa appointment category as published in the wait-time
// table. Slug is the API identifier, Label the published column name.
type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// CategoryAll selects every category.
const CategoryAll = "all"

// Categories lists the published appointment categories in display order.
var Categories = []Category{
	{Slug: "petition", Label: "Petition-Based Temporary Workers (H, L, O, P, Q)"},
	{Slug: "students", Label: "Student/Exchange Visitors (F, M, J)"},
	{Slug: "crew", Label: "Crew and Transit (C, D, C1/D)"},
	{Slug: "visitors", Label: "Visitors (B1/B2)"},
}

// CategoryBySlug resolves an API category identifier.
func CategoryBySlug(slug string) (Category, bool) {
	folded := strings.ToLower(strings.TrimSpace(slug))
	for _, c := range Categories {
		if c.Slug == folded {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByLabel resolves a published column name, tolerating case and
// spacing drift in the source table.
func CategoryByLabel(label string) (Category, bool) {
	folded := foldLabel(label)
	for _, c := range Categories {
		if foldLabel(c.Label) == folded {
			return c, true
		}
	}
	return Category{}, false
}

func foldLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// ValidCategory reports whether slug names a category or the "all" selector.
func ValidCategory(slug string) bool {
	if strings.EqualFold(strings.TrimSpace(slug), CategoryAll) {
		return true
	}
	_, ok := CategoryBySlug(slug)
	return ok
}

// WaitTimeRecord is one published wait time: a (city, category) cell of
// the source table, already resolved to a country. Immutable after load.
type WaitTimeRecord struct {
	Country      string
	City         string
	CategorySlug string
	WaitDays     int
	Unit         string
}

// RenderableRecord is a wait-time record joined with the city reference.
// Coordinates are guaranteed present and range-valid.
type RenderableRecord struct {
	Country      string  `json:"country"`
	City         string  `json:"city"`
	CategorySlug string  `json:"category"`
	WaitDays     int     `json:"wait_days"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}
