package domain

import (
	"sort"
	"strings"

	"github.com/roledad/visa-wait-time/internal/geo"
)

// JoinDiagnostics describes what the join dropped. Unmatched rows are not
// an error: the dataset serves without them, and the posts are surfaced in
// the summary so the gap is visible.
type JoinDiagnostics struct {
	Matched        int
	UnmatchedRows  int
	UnmatchedPosts []string
}

// Join resolves each wait-time record against the city reference and keeps
// the ones with coordinates. Output order follows input order. Rows whose
// (country, city) key has no reference entry are counted and their post
// names collected, first occurrence first.
func Join(rows []WaitTimeRecord, index *geo.Index) ([]RenderableRecord, JoinDiagnostics) {
	records := make([]RenderableRecord, 0, len(rows))
	diag := JoinDiagnostics{}
	seen := make(map[string]bool)

	for _, row := range rows {
		city, ok := index.Lookup(row.Country, row.City)
		if !ok {
			diag.UnmatchedRows++
			key := strings.ToLower(row.City)
			if !seen[key] {
				seen[key] = true
				diag.UnmatchedPosts = append(diag.UnmatchedPosts, row.City)
			}
			continue
		}

		records = append(records, RenderableRecord{
			Country:      row.Country,
			City:         row.City,
			CategorySlug: row.CategorySlug,
			WaitDays:     row.WaitDays,
			Lat:          city.Lat,
			Lng:          city.Lng,
		})
		diag.Matched++
	}

	return records, diag
}

// Dataset is the loaded, joined wait-time data the dashboard serves.
// It is built once at startup and never mutated; every query works on
// read-only views of it.
type Dataset struct {
	records    []RenderableRecord
	countries  []string
	cities     int
	asOfDate   string
	updateDate string
	diag       JoinDiagnostics
}

// NewDataset builds the immutable dataset from joined records and the
// source metadata. The country list is distinct and sorted for the grid
// dropdown; the city count backs the summary metric.
func NewDataset(records []RenderableRecord, asOfDate, updateDate string, diag JoinDiagnostics) *Dataset {
	countrySet := make(map[string]bool)
	citySet := make(map[string]bool)
	for _, r := range records {
		countrySet[r.Country] = true
		citySet[strings.ToLower(r.Country)+"|"+strings.ToLower(r.City)] = true
	}

	countries := make([]string, 0, len(countrySet))
	for country := range countrySet {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	return &Dataset{
		records:    records,
		countries:  countries,
		cities:     len(citySet),
		asOfDate:   asOfDate,
		updateDate: updateDate,
		diag:       diag,
	}
}

// Records returns the full renderable view in load order.
func (d *Dataset) Records() []RenderableRecord {
	return d.records
}

// Countries returns the distinct countries, sorted.
func (d *Dataset) Countries() []string {
	return d.countries
}

// AsOfDate returns the date the snapshot was taken.
func (d *Dataset) AsOfDate() string {
	return d.asOfDate
}

// UpdateDate returns the last-updated date published with the source table.
func (d *Dataset) UpdateDate() string {
	return d.updateDate
}

// Diagnostics returns what the join dropped.
func (d *Dataset) Diagnostics() JoinDiagnostics {
	return d.diag
}

// Summary carries the dashboard metric cards.
type Summary struct {
	Countries      int    `json:"countries"`
	Cities         int    `json:"cities"`
	Categories     int    `json:"visa_categories"`
	Records        int    `json:"records"`
	LastUpdate     string `json:"last_update"`
	AsOfDate       string `json:"asof_date"`
	UnmatchedPosts int    `json:"unmatched_posts"`
}

// Summary computes the metric-card values for the loaded dataset.
func (d *Dataset) Summary() Summary {
	return Summary{
		Countries:      len(d.countries),
		Cities:         d.cities,
		Categories:     len(Categories),
		Records:        len(d.records),
		LastUpdate:     d.updateDate,
		AsOfDate:       d.asOfDate,
		UnmatchedPosts: len(d.diag.UnmatchedPosts),
	}
}
