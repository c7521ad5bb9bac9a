// Package transport shapes the wait-time dataset for the dashboard
// widgets: query DTOs in, map/grid/export payloads out.
package transport

// RecordsQuery selects a slice of the dataset for the grid and export
// endpoints. Category defaults to the "all" selector; country empty means
// every country.
type RecordsQuery struct {
	Category string `form:"category,default=all" validate:"omitempty,oneof=all petition students crew visitors"`
	Country  string `form:"country" validate:"omitempty,max=60"`
}

// MapQuery selects the category rendered on the scatter map.
type MapQuery struct {
	Category string `form:"category,default=all" validate:"omitempty,oneof=all petition students crew visitors"`
}
