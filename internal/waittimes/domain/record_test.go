package domain

import "testing"

func TestCategoryBySlug(t *testing.T) {
	cases := []struct {
		slug string
		want string
		ok   bool
	}{
		{"petition", "Petition-Based Temporary Workers (H, L, O, P, Q)", true},
		{"students", "Student/Exchange Visitors (F, M, J)", true},
		{"crew", "Crew and Transit (C, D, C1/D)", true},
		{"visitors", "Visitors (B1/B2)", true},
		{"VISITORS", "Visitors (B1/B2)", true},
		{" crew ", "Crew and Transit (C, D, C1/D)", true},
		{"diplomats", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := CategoryBySlug(tc.slug)
		if ok != tc.ok {
			t.Errorf("CategoryBySlug(%q) ok = %v, want %v", tc.slug, ok, tc.ok)
			continue
		}
		if ok && got.Label != tc.want {
			t.Errorf("CategoryBySlug(%q) = %q, want %q", tc.slug, got.Label, tc.want)
		}
	}
}

func TestCategoryByLabel_ToleratesSpacingDrift(t *testing.T) {
	got, ok := CategoryByLabel("petition-based  temporary workers (h, l, o, p, q)")
	if !ok {
		t.Fatalf("expected folded label to resolve")
	}
	if got.Slug != "petition" {
		t.Fatalf("expected slug petition, got %s", got.Slug)
	}
}

func TestValidCategory(t *testing.T) {
	cases := []struct {
		slug string
		want bool
	}{
		{"all", true},
		{"All", true},
		{"petition", true},
		{"students", true},
		{"tourist", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidCategory(tc.slug); got != tc.want {
			t.Errorf("ValidCategory(%q) = %v, want %v", tc.slug, got, tc.want)
		}
	}
}
