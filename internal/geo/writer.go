package geo

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
)

// WriteCities writes the reference table in the schema LoadCities reads.
// Rows are ordered population-descending so that duplicate city names
// resolve to the most populous entry on reload.
func WriteCities(path string, cities []City) error {
	ordered := make([]City, len(cities))
	copy(ordered, cities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Population > ordered[j].Population
	})

	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{colCountry, colCity, colCityASCII, colLat, colLng, colPopulation}); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	for _, city := range ordered {
		record := []string{
			city.Country,
			city.Name,
			city.ASCIIName,
			strconv.FormatFloat(city.Lat, 'f', -1, 64),
			strconv.FormatFloat(city.Lng, 'f', -1, 64),
			strconv.FormatInt(city.Population, 10),
		}
		if err := w.Write(record); err != nil {
			return &LoadError{Path: path, Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return f.Close()
}
