package transport

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/roledad/visa-wait-time/internal/waittimes/domain"
)

// viewportPad widens the map bounding box so edge markers are not pinned
// to the widget border.
const viewportPad = 2.0

// Map renders records as a GeoJSON FeatureCollection for the scatter map.
// Each feature is a point with the record fields as properties plus an
// intensity in [0, 1] scaled over the maximum wait of this selection,
// which drives marker size and colour. The collection bbox is the padded
// bounding box of the selection for the initial viewport.
func Map(records []domain.RenderableRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(records) == 0 {
		return fc
	}

	maxWait := 0
	for _, r := range records {
		if r.WaitDays > maxWait {
			maxWait = r.WaitDays
		}
	}

	bound := orb.Point{records[0].Lng, records[0].Lat}.Bound()
	for _, r := range records {
		point := orb.Point{r.Lng, r.Lat}
		bound = bound.Extend(point)

		feature := geojson.NewFeature(point)
		feature.Properties = geojson.Properties{
			"city":      r.City,
			"country":   r.Country,
			"category":  r.CategorySlug,
			"wait_days": r.WaitDays,
			"intensity": intensity(r.WaitDays, maxWait),
		}
		fc.Append(feature)
	}

	fc.BBox = geojson.NewBBox(bound.Pad(viewportPad))
	return fc
}

// intensity maps a wait onto [0, 1] relative to the selection maximum.
// A selection of all same-day posts renders at zero intensity.
func intensity(waitDays, maxWait int) float64 {
	if maxWait <= 0 {
		return 0
	}
	return float64(waitDays) / float64(maxWait)
}

// GridRow is one data-grid line.
type GridRow struct {
	City          string `json:"city"`
	Country       string `json:"country"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	WaitDays      int    `json:"wait_days"`
}

// GridPayload feeds the data grid: the selected rows plus the distinct
// country list for the country dropdown.
type GridPayload struct {
	Rows      []GridRow `json:"rows"`
	Countries []string  `json:"countries"`
	Total     int       `json:"total"`
}

// Grid shapes records for the data grid, keeping load order.
func Grid(records []domain.RenderableRecord, countries []string) GridPayload {
	rows := make([]GridRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, GridRow{
			City:          r.City,
			Country:       r.Country,
			Category:      r.CategorySlug,
			CategoryLabel: categoryLabel(r.CategorySlug),
			WaitDays:      r.WaitDays,
		})
	}

	return GridPayload{
		Rows:      rows,
		Countries: countries,
		Total:     len(rows),
	}
}

// CSVHeader is the export column order.
func CSVHeader() []string {
	return []string{"country", "city", "visa_category", "wait_days", "lat", "lng"}
}

// CSVRow renders one record for the export, matching CSVHeader order.
func CSVRow(r domain.RenderableRecord) []string {
	return []string{
		r.Country,
		r.City,
		categoryLabel(r.CategorySlug),
		strconv.Itoa(r.WaitDays),
		strconv.FormatFloat(r.Lat, 'f', -1, 64),
		strconv.FormatFloat(r.Lng, 'f', -1, 64),
	}
}

func categoryLabel(slug string) string {
	if category, ok := domain.CategoryBySlug(slug); ok {
		return category.Label
	}
	return slug
}
