package stategov

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/html"

	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// Client fetches the travel.state.gov pages.
type Client struct {
	httpClient       *http.Client
	waitTimesURL     string
	bulletinIndexURL string
	userAgent        string
	log              *logger.Logger
}

// New creates a travel.state.gov client.
func New(cfg config.FetchConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:       &http.Client{Timeout: cfg.GetFetchTimeout()},
		waitTimesURL:     cfg.GetWaitTimesURL(),
		bulletinIndexURL: cfg.GetBulletinIndexURL(),
		userAgent:        cfg.GetFetchUserAgent(),
		log:              log,
	}
}

// FetchWaitTimes downloads and parses the global wait-times page.
func (c *Client) FetchWaitTimes(ctx context.Context) (WaitTimesPage, error) {
	doc, err := c.getPage(ctx, c.waitTimesURL)
	if err != nil {
		return WaitTimesPage{}, err
	}
	page, err := ParseWaitTimes(doc)
	if err != nil {
		return WaitTimesPage{}, fmt.Errorf("parse wait times: %w", err)
	}
	c.log.Info("wait-times page parsed", "rows", len(page.Rows), "update_date", page.UpdateDate)
	return page, nil
}

// FetchBulletin discovers the current bulletin from the index page, then
// downloads and parses its employment-based charts.
func (c *Client) FetchBulletin(ctx context.Context) (Bulletin, error) {
	index, err := c.getPage(ctx, c.bulletinIndexURL)
	if err != nil {
		return Bulletin{}, err
	}
	title, bulletinURL, err := ParseBulletinIndex(index, c.bulletinIndexURL)
	if err != nil {
		return Bulletin{}, fmt.Errorf("parse bulletin index: %w", err)
	}

	page, err := c.getPage(ctx, bulletinURL)
	if err != nil {
		return Bulletin{}, err
	}
	finalAction, datesForFiling, err := ParseBulletinCharts(page)
	if err != nil {
		return Bulletin{}, fmt.Errorf("parse %s: %w", title, err)
	}

	c.log.Info("bulletin parsed",
		"title", title,
		"final_action_rows", len(finalAction),
		"dates_for_filing_rows", len(datesForFiling))

	return Bulletin{
		Title:          title,
		SourceURL:      bulletinURL,
		FinalAction:    finalAction,
		DatesForFiling: datesForFiling,
	}, nil
}

func (c *Client) getPage(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("travel.state.gov request failed", "error", err, "url", pageURL)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("travel.state.gov upstream error", "status", resp.StatusCode, "url", pageURL)
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
