// Package geocode resolves consular post names that are absent from the
// city reference, using the Nominatim search API. It is the last resort of
// the post-resolution chain and is off by default.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// Result is a resolved post location.
type Result struct {
	Country string
	City    string
	Lat     float64
	Lng     float64
}

// Client queries Nominatim. Requests are limited to one per second per the
// service's usage policy.
type Client struct {
	httpClient *http.Client
	searchURL  string
	userAgent  string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a Nominatim client.
func New(cfg config.GeocodeConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		searchURL:  cfg.GetGeocodeURL(),
		userAgent:  cfg.GetFetchUserAgent(),
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		log:        log,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		Country      string `json:"country"`
	} `json:"address"`
}

// Resolve looks up a post name. found is false when Nominatim has no usable
// match; the caller decides whether that demotes the post or fails the run.
func (c *Client) Resolve(ctx context.Context, name string) (Result, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, false, err
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	reqURL := fmt.Sprintf("%s?%s", c.searchURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("nominatim request failed", "error", err, "query", name)
		return Result{}, false, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("nominatim upstream error", "status", resp.StatusCode, "query", name)
		return Result{}, false, fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Result{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		c.log.Debug("nominatim no match", "query", name)
		return Result{}, false, nil
	}

	result, ok := buildResult(name, results[0])
	if !ok {
		c.log.Debug("nominatim unusable match", "query", name, "display_name", results[0].DisplayName)
		return Result{}, false, nil
	}
	return result, true, nil
}

func buildResult(name string, raw nominatimResult) (Result, bool) {
	if raw.Address.Country == "" {
		return Result{}, false
	}
	lat, errLat := strconv.ParseFloat(raw.Lat, 64)
	lng, errLng := strconv.ParseFloat(raw.Lon, 64)
	if errLat != nil || errLng != nil {
		return Result{}, false
	}

	city := pickCity(raw)
	if city == "" {
		city = name
	}

	return Result{
		Country: raw.Address.Country,
		City:    city,
		Lat:     lat,
		Lng:     lng,
	}, true
}

func pickCity(raw nominatimResult) string {
	if raw.Address.City != "" {
		return raw.Address.City
	}
	if raw.Address.Town != "" {
		return raw.Address.Town
	}
	if raw.Address.Village != "" {
		return raw.Address.Village
	}
	return raw.Address.Municipality
}
