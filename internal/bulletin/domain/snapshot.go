// Package domain defines the employment-based immigration snapshot served by
// the bulletin endpoints: Visa Bulletin priority-date charts plus DOL
// prevailing-wage and PERM processing figures.
package domain

import "strings"

// Table slugs for the two Visa Bulletin charts.
const (
	TableFinalAction    = "final-action"
	TableDatesForFiling = "dates-for-filing"
)

// Chargeability area slugs. "all" is the bulletin's catch-all column for
// areas without their own backlog.
const (
	AreaAll         = "all"
	AreaChina       = "china"
	AreaIndia       = "india"
	AreaMexico      = "mexico"
	AreaPhilippines = "philippines"
)

// Area pairs an area slug with the column heading the bulletin prints.
type Area struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// Areas lists the chargeability areas in bulletin column order.
var Areas = []Area{
	{Slug: AreaAll, Label: "All Chargeability Areas Except Those Listed"},
	{Slug: AreaChina, Label: "China (mainland born)"},
	{Slug: AreaIndia, Label: "India"},
	{Slug: AreaMexico, Label: "Mexico"},
	{Slug: AreaPhilippines, Label: "Philippines"},
}

// ValidArea reports whether slug names a chargeability area.
func ValidArea(slug string) bool {
	for _, a := range Areas {
		if a.Slug == strings.ToLower(strings.TrimSpace(slug)) {
			return true
		}
	}
	return false
}

// ValidTable reports whether slug names one of the two bulletin charts.
func ValidTable(slug string) bool {
	s := strings.ToLower(strings.TrimSpace(slug))
	return s == TableFinalAction || s == TableDatesForFiling
}

// PriorityDateRow is one employment-preference row of a bulletin chart.
// Cutoff values are an ISO date (the priority date that is current), "C"
// (all dates current) or "U" (unavailable).
type PriorityDateRow struct {
	Preference  string `json:"preference"`
	AllAreas    string `json:"all_areas"`
	China       string `json:"china"`
	India       string `json:"india"`
	Mexico      string `json:"mexico"`
	Philippines string `json:"philippines"`
}

// CutoffFor returns the cutoff value for the given area slug.
func (r PriorityDateRow) CutoffFor(area string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(area)) {
	case AreaAll:
		return r.AllAreas, true
	case AreaChina:
		return r.China, true
	case AreaIndia:
		return r.India, true
	case AreaMexico:
		return r.Mexico, true
	case AreaPhilippines:
		return r.Philippines, true
	}
	return "", false
}

// PWDQueueRow is one receipt month of the DOL prevailing-wage queue. A nil
// count means that month is absent from the corresponding queue.
type PWDQueueRow struct {
	ReceiptMonth string `json:"receipt_month"`
	H1BRequests  *int   `json:"h1b_requests,omitempty"`
	PERMRequests *int   `json:"perm_requests,omitempty"`
}

// PERMStatus carries the DOL PERM processing figures.
type PERMStatus struct {
	AnalystReviewPD string `json:"analyst_review_pd"`
	AverageDays     int    `json:"average_days"`
	LastUpdate      string `json:"last_update"`
}

// Snapshot is the full bulletin dataset written by the fetch tool and served
// read-only by the API.
type Snapshot struct {
	BulletinTitle  string            `json:"bulletin_title"`
	SourceURL      string            `json:"source_url"`
	FetchedAt      string            `json:"fetched_at"`
	FinalAction    []PriorityDateRow `json:"final_action"`
	DatesForFiling []PriorityDateRow `json:"dates_for_filing"`
	PWDQueue       []PWDQueueRow     `json:"pwd_queue"`
	PERM           PERMStatus        `json:"perm"`
}

// Chart returns the rows of the named chart.
func (s Snapshot) Chart(table string) []PriorityDateRow {
	if strings.ToLower(strings.TrimSpace(table)) == TableDatesForFiling {
		return s.DatesForFiling
	}
	return s.FinalAction
}

// AreaCutoff is one row of an area-filtered chart view.
type AreaCutoff struct {
	Preference string `json:"preference"`
	Cutoff     string `json:"cutoff"`
}

// CutoffsFor projects a chart down to a single chargeability area,
// preserving row order.
func CutoffsFor(rows []PriorityDateRow, area string) []AreaCutoff {
	out := make([]AreaCutoff, 0, len(rows))
	for _, row := range rows {
		value, ok := row.CutoffFor(area)
		if !ok {
			return nil
		}
		out = append(out, AreaCutoff{Preference: row.Preference, Cutoff: value})
	}
	return out
}
