// Package stategov fetches and parses the travel.state.gov pages the
// snapshot is built from: the global visa wait-times table and the monthly
// Visa Bulletin.
package stategov

import (
	bulletindomain "github.com/roledad/visa-wait-time/internal/bulletin/domain"
	"github.com/roledad/visa-wait-time/internal/waittimes/domain"
)

// WaitRow is one usable cell of the wait-times table: a consular post, an
// appointment category and the published wait in days.
type WaitRow struct {
	Post     string
	Category domain.Category
	WaitDays int
}

// WaitTimesPage is the parsed global wait-times page.
type WaitTimesPage struct {
	UpdateDate string // ISO date from the page's "Last updated:" note
	Rows       []WaitRow
}

// Bulletin is the parsed monthly Visa Bulletin: the two employment-based
// charts plus the bulletin the rows came from.
type Bulletin struct {
	Title          string
	SourceURL      string
	FinalAction    []bulletindomain.PriorityDateRow
	DatesForFiling []bulletindomain.PriorityDateRow
}
