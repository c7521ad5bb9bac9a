package stategov

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	bulletindomain "github.com/roledad/visa-wait-time/internal/bulletin/domain"
	"github.com/roledad/visa-wait-time/internal/shared/htmltable"
)

// ParseBulletinIndex locates the current bulletin on the index page. The
// page advertises the current and upcoming month as prominent buttons; when
// both are present the second is the upcoming one and is preferred.
func ParseBulletinIndex(doc *html.Node, indexURL string) (title, bulletinURL string, err error) {
	buttons := htmltable.FindAll(doc, func(n *html.Node) bool {
		return htmltable.IsElement(n, "a") && htmltable.HasClasses(n, "btn", "btn-lg", "btn-success")
	})
	if len(buttons) == 0 {
		return "", "", fmt.Errorf("bulletin index has no bulletin links")
	}

	link := buttons[0]
	if len(buttons) == 2 && htmltable.Attr(buttons[1], "href") != "" {
		link = buttons[1]
	}

	href := htmltable.Attr(link, "href")
	if href == "" {
		return "", "", fmt.Errorf("bulletin link has no href")
	}
	resolved, err := resolveURL(indexURL, href)
	if err != nil {
		return "", "", err
	}

	return "Visa Bulletin for " + htmltable.Text(link), resolved, nil
}

func resolveURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse bulletin href: %w", err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// ParseBulletinCharts extracts the two employment-based charts from a
// bulletin page. The page carries family-sponsored charts too; the
// employment charts are recognized by their header row and appear in
// final action, dates for filing order.
func ParseBulletinCharts(doc *html.Node) (finalAction, datesForFiling []bulletindomain.PriorityDateRow, err error) {
	var charts [][]bulletindomain.PriorityDateRow

	for _, table := range htmltable.Tables(doc) {
		rows := htmltable.Rows(table)
		if len(rows) < 2 || !isEmploymentHeader(rows[0]) {
			continue
		}
		chart, err := parseChartRows(rows[1:])
		if err != nil {
			return nil, nil, err
		}
		charts = append(charts, chart)
		if len(charts) == 2 {
			break
		}
	}

	if len(charts) < 2 {
		return nil, nil, fmt.Errorf("bulletin page has %d employment charts, want 2", len(charts))
	}
	return charts[0], charts[1], nil
}

// isEmploymentHeader recognizes the chart header row: an employment-based
// preference column followed by the five chargeability areas.
func isEmploymentHeader(cells []string) bool {
	if len(cells) != 6 {
		return false
	}
	first := strings.ToLower(cells[0])
	if !strings.Contains(first, "employment") {
		return false
	}
	return strings.Contains(strings.ToUpper(cells[2]), "CHINA")
}

func parseChartRows(rows [][]string) ([]bulletindomain.PriorityDateRow, error) {
	chart := make([]bulletindomain.PriorityDateRow, 0, len(rows))
	for _, cells := range rows {
		if len(cells) != 6 {
			return nil, fmt.Errorf("chart row has %d cells, want 6: %v", len(cells), cells)
		}
		row := bulletindomain.PriorityDateRow{Preference: strings.TrimSpace(cells[0])}
		values := [5]*string{&row.AllAreas, &row.China, &row.India, &row.Mexico, &row.Philippines}
		for i, target := range values {
			cutoff, err := NormalizeCutoff(cells[i+1])
			if err != nil {
				return nil, fmt.Errorf("preference %s: %w", row.Preference, err)
			}
			*target = cutoff
		}
		chart = append(chart, row)
	}
	return chart, nil
}

// NormalizeCutoff converts a bulletin chart cell to its served form: "C"
// (current) and "U" (unavailable) pass through, dates like 01JAN23 become
// ISO dates.
func NormalizeCutoff(raw string) (string, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	switch s {
	case "C", "U":
		return s, nil
	}
	t, err := time.Parse("02Jan06", s)
	if err != nil {
		return "", fmt.Errorf("unrecognized cutoff %q", raw)
	}
	return t.Format("2006-01-02"), nil
}
