package domain

import (
	"reflect"
	"testing"
)

func sampleRecords() []RenderableRecord {
	return []RenderableRecord{
		{Country: "Canada", City: "Toronto", CategorySlug: "visitors", WaitDays: 10},
		{Country: "Canada", City: "Toronto", CategorySlug: "students", WaitDays: 4},
		{Country: "Japan", City: "Tokyo", CategorySlug: "visitors", WaitDays: 5},
		{Country: "Mexico", City: "Tijuana", CategorySlug: "crew", WaitDays: 2},
	}
}

func TestFilterByCategory_AllReturnsEverything(t *testing.T) {
	records := sampleRecords()

	got := FilterByCategory(records, "all")
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("expected the complete dataset for category all")
	}

	got = FilterByCategory(records, "")
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("expected the complete dataset for empty category")
	}
}

func TestFilterByCategory_SelectsOnlyThatCategory(t *testing.T) {
	got := FilterByCategory(sampleRecords(), "visitors")

	if len(got) != 2 {
		t.Fatalf("expected 2 visitor records, got %d", len(got))
	}
	for _, r := range got {
		if r.CategorySlug != "visitors" {
			t.Errorf("record %s/%s leaked into visitors filter", r.City, r.CategorySlug)
		}
	}
	// Load order is preserved.
	if got[0].City != "Toronto" || got[1].City != "Tokyo" {
		t.Fatalf("expected load order Toronto, Tokyo; got %s, %s", got[0].City, got[1].City)
	}
}

func TestFilterByCategory_IsIdempotent(t *testing.T) {
	once := FilterByCategory(sampleRecords(), "visitors")
	twice := FilterByCategory(once, "visitors")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filtering an already-filtered view changed it:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestFilterByCategory_SelectionsAreIndependent(t *testing.T) {
	records := sampleRecords()

	first := FilterByCategory(records, "students")
	FilterByCategory(records, CategoryAll)
	second := FilterByCategory(records, "students")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same selection after a different one produced a different result")
	}
}

func TestFilterByCategory_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	want := sampleRecords()

	FilterByCategory(records, "crew")
	FilterByCategory(records, "nonexistent")

	if !reflect.DeepEqual(records, want) {
		t.Fatalf("input records were mutated by filtering")
	}
}

func TestFilterByCategory_UnknownCategoryIsEmpty(t *testing.T) {
	got := FilterByCategory(sampleRecords(), "diplomats")
	if len(got) != 0 {
		t.Fatalf("expected empty result for unknown category, got %d records", len(got))
	}
}

func TestFilterByCountry_MatchesCaseInsensitively(t *testing.T) {
	got := FilterByCountry(sampleRecords(), "canada")

	if len(got) != 2 {
		t.Fatalf("expected 2 Canadian records, got %d", len(got))
	}
	for _, r := range got {
		if r.Country != "Canada" {
			t.Errorf("record %s leaked into Canada filter", r.Country)
		}
	}
}

func TestFilterByCountry_EmptyReturnsEverything(t *testing.T) {
	records := sampleRecords()
	got := FilterByCountry(records, "")
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("expected the complete dataset for empty country")
	}
}

func TestFiltersCompose(t *testing.T) {
	got := FilterByCountry(FilterByCategory(sampleRecords(), "visitors"), "Japan")

	if len(got) != 1 {
		t.Fatalf("expected 1 record for visitors in Japan, got %d", len(got))
	}
	if got[0].City != "Tokyo" {
		t.Fatalf("expected Tokyo, got %s", got[0].City)
	}
}
