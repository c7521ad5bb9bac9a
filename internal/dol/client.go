package dol

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/html"

	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// Client fetches the DOL processing-times page.
type Client struct {
	httpClient *http.Client
	pageURL    string
	userAgent  string
	log        *logger.Logger
}

// New creates a DOL client.
func New(cfg config.FetchConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetFetchTimeout()},
		pageURL:    cfg.GetDOLProcessingURL(),
		userAgent:  cfg.GetFetchUserAgent(),
		log:        log,
	}
}

// FetchProcessingTimes downloads and parses the processing-times page.
func (c *Client) FetchProcessingTimes(ctx context.Context) (ProcessingTimes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return ProcessingTimes{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("dol request failed", "error", err, "url", c.pageURL)
		return ProcessingTimes{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("dol upstream error", "status", resp.StatusCode, "url", c.pageURL)
		return ProcessingTimes{}, fmt.Errorf("fetch %s: status %d", c.pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return ProcessingTimes{}, fmt.Errorf("parse html: %w", err)
	}

	times, err := ParseProcessingTimes(doc)
	if err != nil {
		return ProcessingTimes{}, fmt.Errorf("parse processing times: %w", err)
	}

	c.log.Info("dol processing times parsed",
		"pwd_queue_months", len(times.PWDQueue),
		"perm_average_days", times.PERM.AverageDays)

	return times, nil
}
