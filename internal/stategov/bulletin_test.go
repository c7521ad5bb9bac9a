package stategov

import (
	"strings"
	"testing"
)

const sampleBulletinIndexHTML = `<html><body>
<a class="btn btn-lg btn-success" href="/content/travel/en/legal/visa-law0/visa-bulletin/2025/visa-bulletin-for-june-2025.html">June 2025</a>
<a class="btn btn-lg btn-success" href="/content/travel/en/legal/visa-law0/visa-bulletin/2025/visa-bulletin-for-july-2025.html">July 2025</a>
<a class="btn" href="/archive.html">Archive</a>
</body></html>`

const sampleBulletinHTML = `<html><body>
<table>
  <tr><td>Family-Sponsored</td><td>All Chargeability Areas Except Those Listed</td><td>CHINA-mainland born</td><td>INDIA</td><td>MEXICO</td><td>PHILIPPINES</td></tr>
  <tr><td>F1</td><td>01JAN16</td><td>01JAN16</td><td>01JAN16</td><td>01JAN05</td><td>15JUL12</td></tr>
</table>
<table>
  <tr><td>Employment-based</td><td>All Chargeability Areas Except Those Listed</td><td>CHINA-mainland born</td><td>INDIA</td><td>MEXICO</td><td>PHILIPPINES</td></tr>
  <tr><td>1st</td><td>C</td><td>08NOV22</td><td>15FEB22</td><td>C</td><td>C</td></tr>
  <tr><td>2nd</td><td>22JUN23</td><td>01DEC20</td><td>01JAN13</td><td>22JUN23</td><td>22JUN23</td></tr>
  <tr><td>Other Workers</td><td>22JUN21</td><td>01NOV17</td><td>15APR13</td><td>22JUN21</td><td>U</td></tr>
</table>
<table>
  <tr><td>Employment-based</td><td>All Chargeability Areas Except Those Listed</td><td>CHINA-mainland born</td><td>INDIA</td><td>MEXICO</td><td>PHILIPPINES</td></tr>
  <tr><td>1st</td><td>C</td><td>01JAN23</td><td>15APR22</td><td>C</td><td>C</td></tr>
  <tr><td>2nd</td><td>01AUG23</td><td>01JUN21</td><td>01FEB13</td><td>01AUG23</td><td>01AUG23</td></tr>
</table>
</body></html>`

func TestParseBulletinIndex_PrefersUpcomingMonth(t *testing.T) {
	indexURL := "https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin.html"

	title, link, err := ParseBulletinIndex(parseDoc(t, sampleBulletinIndexHTML), indexURL)
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if title != "Visa Bulletin for July 2025" {
		t.Fatalf("title = %q", title)
	}
	want := "https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin/2025/visa-bulletin-for-july-2025.html"
	if link != want {
		t.Fatalf("link = %q, want %q", link, want)
	}
}

func TestParseBulletinIndex_SingleButton(t *testing.T) {
	raw := `<html><body><a class="btn btn-lg btn-success" href="/vb/june.html">June 2025</a></body></html>`

	title, link, err := ParseBulletinIndex(parseDoc(t, raw), "https://travel.state.gov/index.html")
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if title != "Visa Bulletin for June 2025" {
		t.Fatalf("title = %q", title)
	}
	if link != "https://travel.state.gov/vb/june.html" {
		t.Fatalf("link = %q", link)
	}
}

func TestParseBulletinIndex_NoButtonsFails(t *testing.T) {
	raw := `<html><body><a class="btn" href="/x.html">x</a></body></html>`
	if _, _, err := ParseBulletinIndex(parseDoc(t, raw), "https://travel.state.gov/"); err == nil {
		t.Fatal("expected an index without bulletin buttons to fail")
	}
}

func TestParseBulletinCharts_SkipsFamilyChart(t *testing.T) {
	finalAction, datesForFiling, err := ParseBulletinCharts(parseDoc(t, sampleBulletinHTML))
	if err != nil {
		t.Fatalf("parse charts: %v", err)
	}

	if len(finalAction) != 3 {
		t.Fatalf("final action rows = %d, want 3", len(finalAction))
	}
	if len(datesForFiling) != 2 {
		t.Fatalf("dates for filing rows = %d, want 2", len(datesForFiling))
	}
	for _, row := range finalAction {
		if row.Preference == "F1" {
			t.Fatal("family-sponsored chart leaked into the employment rows")
		}
	}
}

func TestParseBulletinCharts_NormalizesCutoffs(t *testing.T) {
	finalAction, _, err := ParseBulletinCharts(parseDoc(t, sampleBulletinHTML))
	if err != nil {
		t.Fatalf("parse charts: %v", err)
	}

	first := finalAction[0]
	if first.Preference != "1st" || first.AllAreas != "C" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.China != "2022-11-08" || first.India != "2022-02-15" {
		t.Fatalf("dates not normalized: %+v", first)
	}
	if finalAction[2].Philippines != "U" {
		t.Fatalf("U must pass through, got %q", finalAction[2].Philippines)
	}
}

func TestParseBulletinCharts_MissingChartFails(t *testing.T) {
	raw := strings.Replace(sampleBulletinHTML, "Employment-based", "Family-Sponsored", 1)
	if _, _, err := ParseBulletinCharts(parseDoc(t, raw)); err == nil {
		t.Fatal("expected a page with one employment chart to fail")
	}
}

func TestNormalizeCutoff_Forms(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"01JAN23", "2023-01-01"},
		{"08NOV22", "2022-11-08"},
		{"15FEB22", "2022-02-15"},
		{"C", "C"},
		{"c", "C"},
		{"U", "U"},
		{" 22JUN23 ", "2023-06-22"},
	}
	for _, tc := range cases {
		got, err := NormalizeCutoff(tc.raw)
		if err != nil {
			t.Errorf("NormalizeCutoff(%q) error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeCutoff(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCutoff_GarbageFails(t *testing.T) {
	for _, raw := range []string{"current", "2023-01-01", "32JAN23", ""} {
		if _, err := NormalizeCutoff(raw); err == nil {
			t.Errorf("NormalizeCutoff(%q) expected error", raw)
		}
	}
}
