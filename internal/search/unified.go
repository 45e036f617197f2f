package search

import (
	"context"
	"log/slog"
)

// Client arbitrates between the quota-limited SerpAPI provider and the
// free DuckDuckGo scraper. SerpAPI goes first while quota remains; any
// empty answer falls through to DDG. Both failing is not an error, the
// caller just gets nothing.
type Client struct {
	serp   *SerpAPIProvider
	ddg    *DDGProvider
	logger *slog.Logger
}

// Status is a point-in-time snapshot of provider availability.
type Status struct {
	PrimaryEngine    string `json:"primary_engine"`
	SerpAPIAvailable bool   `json:"serpapi_available"`
	SerpAPIUsed      int    `json:"serpapi_used"`
	SerpAPIRemaining int    `json:"serpapi_remaining"`
	SerpAPIQuota     int    `json:"serpapi_quota"`
}

func NewClient(serp *SerpAPIProvider, ddg *DDGProvider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{serp: serp, ddg: ddg, logger: logger}
}

// Search runs a text search through the first available provider.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Result {
	if c.serp.Available() {
		if results := c.serp.SearchText(ctx, query, maxResults); len(results) > 0 {
			return results
		}
		c.logger.Debug("search.fallback", "from", c.serp.Name(), "to", c.ddg.Name())
	}
	return c.ddg.SearchText(ctx, query, maxResults)
}

// SearchImages runs an image search through the first available provider.
func (c *Client) SearchImages(ctx context.Context, query string, maxResults int) []ImageResult {
	if c.serp.Available() {
		if results := c.serp.SearchImages(ctx, query, maxResults); len(results) > 0 {
			return results
		}
		c.logger.Debug("search.fallback", "from", c.serp.Name(), "to", c.ddg.Name())
	}
	return c.ddg.SearchImages(ctx, query, maxResults)
}

// Status reports which engine is primary right now and the quota position.
func (c *Client) Status() Status {
	s := Status{
		SerpAPIAvailable: c.serp.Available(),
		SerpAPIUsed:      c.serp.Quota().Used(),
		SerpAPIRemaining: c.serp.Quota().Remaining(),
		SerpAPIQuota:     c.serp.Quota().Used() + c.serp.Quota().Remaining(),
	}
	if s.SerpAPIAvailable {
		s.PrimaryEngine = c.serp.Name()
	} else {
		s.PrimaryEngine = c.ddg.Name()
	}
	return s
}
