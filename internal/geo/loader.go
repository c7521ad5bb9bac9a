package geo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column names expected in the cities file. Lookup is by header name so
// column order in the file does not matter.
const (
	colCountry    = "country"
	colCity       = "city"
	colCityASCII  = "city_ascii"
	colLat        = "lat"
	colLng        = "lng"
	colPopulation = "population"
)

// LoadCities reads the world-cities reference table. Row order is
// preserved: the file is written population-descending so that duplicate
// city names resolve to the most populous entry.
func LoadCities(path string) ([]City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	cols, missing := headerIndex(header, colCountry, colCity, colCityASCII, colLat, colLng, colPopulation)
	if missing != "" {
		return nil, &LoadError{Path: path, Column: missing}
	}

	var cities []City
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: err}
		}

		lat, err := strconv.ParseFloat(record[cols[colLat]], 64)
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("invalid latitude %q", record[cols[colLat]])}
		}
		lng, err := strconv.ParseFloat(record[cols[colLng]], 64)
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("invalid longitude %q", record[cols[colLng]])}
		}
		if lat < -90 || lat > 90 {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("latitude %v out of range", lat)}
		}
		if lng < -180 || lng > 180 {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("longitude %v out of range", lng)}
		}

		// Population is informational; some reference rows ship without one.
		var population int64
		if raw := strings.TrimSpace(record[cols[colPopulation]]); raw != "" {
			population, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				// Upstream publishes population as a float for some rows.
				fpop, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil {
					return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("invalid population %q", raw)}
				}
				population = int64(fpop)
			}
		}

		city := City{
			Country:    strings.TrimSpace(record[cols[colCountry]]),
			Name:       strings.TrimSpace(record[cols[colCity]]),
			ASCIIName:  strings.TrimSpace(record[cols[colCityASCII]]),
			Lat:        lat,
			Lng:        lng,
			Population: population,
		}
		if city.Name == "" || city.Country == "" {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("empty country or city")}
		}
		cities = append(cities, city)
	}

	if len(cities) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no city rows")}
	}
	return cities, nil
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads the post-name alias table. Posts are published under
// names that do not always match the reference (e.g. "Tel Aviv" vs
// "Tel Aviv-Yafo"); the alias table maps the published name to the
// reference name before lookup.
func LoadAliases(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var file aliasFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if len(file.Aliases) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no aliases defined")}
	}

	aliases := make(map[string]string, len(file.Aliases))
	for from, to := range file.Aliases {
		aliases[foldKey(from)] = strings.TrimSpace(to)
	}
	return aliases, nil
}

// headerIndex resolves required column names to positions. Returns the
// first missing column name, or "" when all are present.
func headerIndex(header []string, required ...string) (map[string]int, string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[foldKey(name)] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		pos, ok := positions[foldKey(name)]
		if !ok {
			return nil, name
		}
		cols[name] = pos
	}
	return cols, ""
}

// foldKey canonicalizes a name for matching: trimmed and lowercased.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
