package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const serpEndpoint = "https://serpapi.com/search.json"

// SerpAPIProvider queries Google through SerpAPI. Every call spends one
// unit of the monthly quota; the quota store is checked by the unified
// client before this provider is selected.
type SerpAPIProvider struct {
	apiKey   string
	endpoint string
	quota    *QuotaStore
	client   *http.Client
	logger   *slog.Logger
}

func NewSerpAPIProvider(apiKey string, quota *QuotaStore, timeout time.Duration, logger *slog.Logger) *SerpAPIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerpAPIProvider{
		apiKey:   apiKey,
		endpoint: serpEndpoint,
		quota:    quota,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (p *SerpAPIProvider) Name() string { return "serpapi" }

// Available reports whether the provider has a key and remaining quota.
func (p *SerpAPIProvider) Available() bool {
	return p.apiKey != "" && p.quota.HasQuota()
}

// Quota exposes the underlying store for status reporting.
func (p *SerpAPIProvider) Quota() *QuotaStore { return p.quota }

type serpTextResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

type serpImageResponse struct {
	ImagesResults []struct {
		Original       string `json:"original"`
		Source         string `json:"source"`
		Title          string `json:"title"`
		OriginalWidth  int    `json:"original_width"`
		OriginalHeight int    `json:"original_height"`
	} `json:"images_results"`
}

func (p *SerpAPIProvider) SearchText(ctx context.Context, query string, maxResults int) []Result {
	body, ok := p.call(ctx, query, "google")
	if !ok {
		return nil
	}
	var resp serpTextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		p.logger.Warn("search.serpapi.decode_failed", "error", err)
		return nil
	}
	var out []Result
	for _, r := range resp.OrganicResults {
		if len(out) >= maxResults {
			break
		}
		if r.Link == "" {
			continue
		}
		out = append(out, Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return out
}

func (p *SerpAPIProvider) SearchImages(ctx context.Context, query string, maxResults int) []ImageResult {
	body, ok := p.call(ctx, query, "google_images")
	if !ok {
		return nil
	}
	var resp serpImageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		p.logger.Warn("search.serpapi.decode_failed", "error", err)
		return nil
	}
	var out []ImageResult
	for _, r := range resp.ImagesResults {
		if len(out) >= maxResults {
			break
		}
		if r.Original == "" {
			continue
		}
		out = append(out, ImageResult{
			ImageURL:  r.Original,
			SourceURL: r.Source,
			Title:     r.Title,
			Width:     r.OriginalWidth,
			Height:    r.OriginalHeight,
		})
	}
	return out
}

// call performs one quota-counted request. The counter is spent as soon
// as the request goes out, matching how SerpAPI bills.
func (p *SerpAPIProvider) call(ctx context.Context, query, engine string) ([]byte, bool) {
	if p.apiKey == "" {
		p.logger.Warn("search.serpapi.no_key")
		return nil, false
	}

	params := url.Values{
		"q":       {query},
		"engine":  {engine},
		"api_key": {p.apiKey},
		"hl":      {"zh-TW"},
		"gl":      {"tw"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		p.logger.Warn("search.serpapi.request_failed", "error", err)
		return nil, false
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if recErr := p.quota.Record(); recErr != nil {
		p.logger.Warn("search.serpapi.quota_save_failed", "error", recErr)
	}
	if err != nil {
		p.logger.Warn("search.serpapi.request_failed", "engine", engine, "error", err)
		return nil, false
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Warn("search.serpapi.read_failed", "error", err)
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("search.serpapi.http_error",
			"engine", engine,
			"status", resp.StatusCode,
			"body", truncate(string(body), 200))
		return nil, false
	}

	p.logger.Debug("search.serpapi.ok",
		"engine", engine,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"used", p.quota.Used(),
		"remaining", p.quota.Remaining())
	return body, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
