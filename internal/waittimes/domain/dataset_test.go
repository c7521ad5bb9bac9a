package domain

import (
	"testing"

	"github.com/roledad/visa-wait-time/internal/geo"
)

func testIndex() *geo.Index {
	return geo.NewIndex([]geo.City{
		{Country: "United States", Name: "Chicago", ASCIIName: "Chicago", Lat: 41.8375, Lng: -87.6866, Population: 8604203},
		{Country: "Canada", Name: "Toronto", ASCIIName: "Toronto", Lat: 43.7417, Lng: -79.3733, Population: 5429524},
		{Country: "Israel", Name: "Tel Aviv-Yafo", ASCIIName: "Tel Aviv-Yafo", Lat: 32.08, Lng: 34.78, Population: 460613},
	}, map[string]string{
		"tel aviv": "Tel Aviv-Yafo",
	})
}

func TestJoin_AttachesCoordinates(t *testing.T) {
	rows := []WaitTimeRecord{
		{Country: "United States", City: "Chicago", CategorySlug: "visitors", WaitDays: 21, Unit: "days"},
	}

	records, diag := Join(rows, testIndex())

	if len(records) != 1 {
		t.Fatalf("expected 1 renderable record, got %d", len(records))
	}
	got := records[0]
	if got.City != "Chicago" || got.Country != "United States" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.Lat != 41.8375 || got.Lng != -87.6866 {
		t.Fatalf("expected Chicago coordinates, got (%v, %v)", got.Lat, got.Lng)
	}
	if got.WaitDays != 21 {
		t.Fatalf("expected wait 21 days, got %d", got.WaitDays)
	}
	if diag.Matched != 1 || diag.UnmatchedRows != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
}

func TestJoin_DropsAndCountsUnmatchedRows(t *testing.T) {
	rows := []WaitTimeRecord{
		{Country: "United States", City: "Chicago", CategorySlug: "visitors", WaitDays: 21},
		{Country: "Atlantis", City: "Poseidonia", CategorySlug: "visitors", WaitDays: 3},
		{Country: "Atlantis", City: "Poseidonia", CategorySlug: "students", WaitDays: 5},
		{Country: "Canada", City: "Toronto", CategorySlug: "crew", WaitDays: 2},
	}

	records, diag := Join(rows, testIndex())

	if len(records) != 2 {
		t.Fatalf("expected 2 renderable records, got %d", len(records))
	}
	if diag.UnmatchedRows != 2 {
		t.Fatalf("expected 2 unmatched rows, got %d", diag.UnmatchedRows)
	}
	if len(diag.UnmatchedPosts) != 1 || diag.UnmatchedPosts[0] != "Poseidonia" {
		t.Fatalf("expected distinct unmatched post Poseidonia, got %v", diag.UnmatchedPosts)
	}
}

func TestJoin_NeverOutputsMoreThanInput(t *testing.T) {
	rows := []WaitTimeRecord{
		{Country: "United States", City: "Chicago", CategorySlug: "visitors", WaitDays: 21},
		{Country: "Israel", City: "Tel Aviv", CategorySlug: "visitors", WaitDays: 40},
		{Country: "Nowhere", City: "Ghost Town", CategorySlug: "visitors", WaitDays: 1},
	}

	records, _ := Join(rows, testIndex())

	if len(records) > len(rows) {
		t.Fatalf("join produced %d records from %d rows", len(records), len(rows))
	}
	for _, r := range records {
		if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
			t.Errorf("record %s has out-of-range coordinates (%v, %v)", r.City, r.Lat, r.Lng)
		}
	}
}

func TestJoin_ResolvesAliasedPosts(t *testing.T) {
	rows := []WaitTimeRecord{
		{Country: "Israel", City: "Tel Aviv", CategorySlug: "petition", WaitDays: 60},
	}

	records, diag := Join(rows, testIndex())

	if len(records) != 1 || diag.UnmatchedRows != 0 {
		t.Fatalf("expected aliased post to join, got %d records, diag %+v", len(records), diag)
	}
	if records[0].Lat != 32.08 {
		t.Fatalf("expected Tel Aviv-Yafo coordinates, got lat %v", records[0].Lat)
	}
	// The published post name is what renders, not the reference name.
	if records[0].City != "Tel Aviv" {
		t.Fatalf("expected published name Tel Aviv, got %s", records[0].City)
	}
}

func TestDataset_SummaryCountsDistinctly(t *testing.T) {
	records := []RenderableRecord{
		{Country: "Canada", City: "Toronto", CategorySlug: "visitors", WaitDays: 10, Lat: 43.74, Lng: -79.37},
		{Country: "Canada", City: "Toronto", CategorySlug: "students", WaitDays: 4, Lat: 43.74, Lng: -79.37},
		{Country: "Canada", City: "Vancouver", CategorySlug: "visitors", WaitDays: 30, Lat: 49.26, Lng: -123.11},
		{Country: "Japan", City: "Tokyo", CategorySlug: "visitors", WaitDays: 5, Lat: 35.69, Lng: 139.69},
	}
	diag := JoinDiagnostics{Matched: 4, UnmatchedRows: 1, UnmatchedPosts: []string{"Poseidonia"}}

	ds := NewDataset(records, "2025-11-03", "November 3, 2025", diag)
	summary := ds.Summary()

	if summary.Countries != 2 {
		t.Fatalf("expected 2 countries, got %d", summary.Countries)
	}
	if summary.Cities != 3 {
		t.Fatalf("expected 3 cities, got %d", summary.Cities)
	}
	if summary.Categories != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), summary.Categories)
	}
	if summary.Records != 4 {
		t.Fatalf("expected 4 records, got %d", summary.Records)
	}
	if summary.LastUpdate != "November 3, 2025" || summary.AsOfDate != "2025-11-03" {
		t.Fatalf("unexpected dates: %+v", summary)
	}
	if summary.UnmatchedPosts != 1 {
		t.Fatalf("expected 1 unmatched post, got %d", summary.UnmatchedPosts)
	}
}

func TestDataset_CountriesAreSorted(t *testing.T) {
	records := []RenderableRecord{
		{Country: "Japan", City: "Tokyo"},
		{Country: "Canada", City: "Toronto"},
		{Country: "Brazil", City: "Brasília"},
	}

	ds := NewDataset(records, "", "", JoinDiagnostics{})

	countries := ds.Countries()
	want := []string{"Brazil", "Canada", "Japan"}
	if len(countries) != len(want) {
		t.Fatalf("expected %d countries, got %d", len(want), len(countries))
	}
	for i, country := range want {
		if countries[i] != country {
			t.Errorf("countries[%d] = %q, want %q", i, countries[i], country)
		}
	}
}
