// Package simplemaps downloads the simplemaps world-cities archive and
// extracts the city reference rows from it.
package simplemaps

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/roledad/visa-wait-time/internal/geo"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// csvMember is the archive member carrying the city table.
const csvMember = "worldcities.csv"

// Client downloads the world-cities archive.
type Client struct {
	httpClient *http.Client
	archiveURL string
	userAgent  string
	log        *logger.Logger
}

// New creates a simplemaps client.
func New(cfg config.FetchConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetFetchTimeout()},
		archiveURL: cfg.GetWorldCitiesURL(),
		userAgent:  cfg.GetFetchUserAgent(),
		log:        log,
	}
}

// FetchCities downloads the archive and extracts the city rows.
func (c *Client) FetchCities(ctx context.Context) ([]geo.City, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.archiveURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("simplemaps request failed", "error", err, "url", c.archiveURL)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("simplemaps upstream error", "status", resp.StatusCode, "url", c.archiveURL)
		return nil, fmt.Errorf("fetch %s: status %d", c.archiveURL, resp.StatusCode)
	}

	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	cities, skipped, err := ExtractCities(archive)
	if err != nil {
		return nil, err
	}
	c.log.Info("world cities extracted", "cities", len(cities), "skipped_rows", skipped)
	return cities, nil
}

// ExtractCities reads the city table from the archive bytes. Rows with
// unparseable coordinates are skipped and counted; an archive yielding no
// rows at all is an error.
func ExtractCities(archive []byte) (cities []geo.City, skipped int, err error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, 0, fmt.Errorf("open archive: %w", err)
	}

	var member *zip.File
	for _, f := range reader.File {
		if f.Name == csvMember {
			member = f
			break
		}
	}
	if member == nil {
		return nil, 0, fmt.Errorf("archive has no %s member", csvMember)
	}

	rc, err := member.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", csvMember, err)
	}
	defer rc.Close()

	return parseCities(rc)
}

func parseCities(r io.Reader) (cities []geo.City, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s header: %w", csvMember, err)
	}
	cols, missing := headerIndex(header, "city", "city_ascii", "lat", "lng", "country", "population")
	if missing != "" {
		return nil, 0, fmt.Errorf("%s is missing column %q", csvMember, missing)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", csvMember, err)
		}

		city, ok := parseCity(record, cols)
		if !ok {
			skipped++
			continue
		}
		cities = append(cities, city)
	}

	if len(cities) == 0 {
		return nil, 0, fmt.Errorf("%s yielded no city rows", csvMember)
	}
	return cities, skipped, nil
}

func parseCity(record []string, cols map[string]int) (geo.City, bool) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name, country := field("city"), field("country")
	if name == "" || country == "" {
		return geo.City{}, false
	}

	lat, errLat := strconv.ParseFloat(field("lat"), 64)
	lng, errLng := strconv.ParseFloat(field("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geo.City{}, false
	}

	// Population is blank for small places; those still resolve, they just
	// rank last among duplicates.
	var population int64
	if raw := field("population"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return geo.City{}, false
		}
		population = int64(f)
	}

	ascii := field("city_ascii")
	if ascii == "" {
		ascii = name
	}

	return geo.City{
		Country:    country,
		Name:       name,
		ASCIIName:  ascii,
		Lat:        lat,
		Lng:        lng,
		Population: population,
	}, true
}

func headerIndex(header []string, required ...string) (map[string]int, string) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, found := cols[name]; !found {
			return nil, name
		}
	}
	return cols, ""
}
