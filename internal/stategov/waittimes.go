package stategov

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/roledad/visa-wait-time/internal/shared/htmltable"
	"github.com/roledad/visa-wait-time/internal/waittimes/domain"
)

// interviewRequiredPrefix marks the table columns the dashboard tracks.
// Interview-waiver columns are published alongside them and are skipped.
const interviewRequiredPrefix = "Interview Required"

// closedStatuses are cell values meaning the post takes no regular
// appointments; those cells produce no record.
var closedStatuses = []string{
	"Closed",
	"Non-Visa Processing Post",
	"Emergency Appointments Only",
}

// CleanWaitCell parses one wait-times table cell. ok is false for empty
// cells and closed-post statuses. Unrecognized values are an error so a
// format change upstream fails the fetch instead of writing a bad snapshot.
func CleanWaitCell(cell string) (days int, ok bool, err error) {
	s := strings.Join(strings.Fields(cell), " ")
	if s == "" {
		return 0, false, nil
	}
	if strings.Contains(s, "Same Day") {
		return 0, true, nil
	}
	for _, status := range closedStatuses {
		if strings.Contains(s, status) {
			return 0, false, nil
		}
	}

	head, _, _ := strings.Cut(s, "Day")
	head = strings.TrimSpace(head)
	if head == "" {
		return 0, false, nil
	}
	days, err = strconv.Atoi(head)
	if err != nil {
		return 0, false, fmt.Errorf("unrecognized wait value %q", cell)
	}
	if days < 0 {
		return 0, false, fmt.Errorf("negative wait value %q", cell)
	}
	return days, true, nil
}

// updateDateLayouts are the formats the page's "Last updated:" note has
// been published in.
var updateDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

func parseUpdateDate(text string) (string, error) {
	_, after, found := strings.Cut(text, "Last updated:")
	if !found {
		return "", fmt.Errorf("no %q note in %q", "Last updated:", text)
	}
	raw := strings.TrimSpace(after)
	for _, layout := range updateDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized update date %q", raw)
}

// ParseWaitTimes extracts the wait-times table and the page's update date.
// The first table on the page is the wait-times table; its first column is
// the post name and the Interview Required columns map onto the dashboard
// categories.
func ParseWaitTimes(doc *html.Node) (WaitTimesPage, error) {
	page := WaitTimesPage{}

	note := htmltable.FindFirst(doc, func(n *html.Node) bool {
		return htmltable.IsElement(n, "div") && htmltable.HasClasses(n, "tsg-rwd-text", "parbase", "section")
	})
	if note != nil {
		p := htmltable.FindFirst(note, func(n *html.Node) bool { return htmltable.IsElement(n, "p") })
		if p != nil {
			date, err := parseUpdateDate(htmltable.Text(p))
			if err != nil {
				return page, err
			}
			page.UpdateDate = date
		}
	}
	if page.UpdateDate == "" {
		return page, fmt.Errorf("wait-times page has no update date")
	}

	tables := htmltable.Tables(doc)
	if len(tables) == 0 {
		return page, fmt.Errorf("wait-times page has no table")
	}
	rows := htmltable.Rows(tables[0])
	if len(rows) < 2 {
		return page, fmt.Errorf("wait-times table has no data rows")
	}

	header := rows[0]
	categories := make(map[int]domain.Category)
	for i, col := range header[1:] {
		label, found := strings.CutPrefix(col, interviewRequiredPrefix)
		if !found {
			continue
		}
		category, known := domain.CategoryByLabel(label)
		if !known {
			continue
		}
		categories[i+1] = category
	}
	if len(categories) == 0 {
		return page, fmt.Errorf("wait-times table has no category columns")
	}

	for _, cells := range rows[1:] {
		post := strings.TrimSpace(cells[0])
		if post == "" {
			continue
		}
		for idx := 1; idx < len(cells); idx++ {
			category, tracked := categories[idx]
			if !tracked {
				continue
			}
			days, ok, err := CleanWaitCell(cells[idx])
			if err != nil {
				return page, fmt.Errorf("post %s: %w", post, err)
			}
			if !ok {
				continue
			}
			page.Rows = append(page.Rows, WaitRow{Post: post, Category: category, WaitDays: days})
		}
	}
	if len(page.Rows) == 0 {
		return page, fmt.Errorf("wait-times table yielded no records")
	}
	return page, nil
}
