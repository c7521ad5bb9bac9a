// Package geo provides the world-cities reference table used to resolve
// consular posts to countries and coordinates. The table is loaded once,
// ordered by population descending, and queried through an immutable Index.
package geo

import "fmt"

// City is one row of the world-cities reference table.
type City struct {
	Country    string
	Name       string
	ASCIIName  string
	Lat        float64
	Lng        float64
	Population int64
}

// LoadError is a fatal data-load failure: a missing file, a missing
// required column or a malformed row. Startup must not proceed past it.
type LoadError struct {
	Path   string
	Column string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("load %s: missing required column %q", e.Path, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
