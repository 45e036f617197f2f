package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	ddgHTMLEndpoint  = "https://html.duckduckgo.com/html/"
	ddgHomeEndpoint  = "https://duckduckgo.com/"
	ddgImageEndpoint = "https://duckduckgo.com/i.js"

	ddgUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var vqdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vqd='([^']+)'`),
	regexp.MustCompile(`vqd="([^"]+)"`),
	regexp.MustCompile(`vqd=([a-zA-Z0-9_-]+)`),
}

// quickDropTokens knock out image URLs that are obviously not photographs
// before scoring ever sees them.
var quickDropTokens = []string{"logo", "icon", "banner", "placeholder"}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// DDGProvider scrapes DuckDuckGo. No key, no quota, but rate-sensitive;
// the orchestrator paces calls between rows.
type DDGProvider struct {
	region   string
	htmlURL  string
	homeURL  string
	imageURL string
	client   *http.Client
	logger   *slog.Logger
}

func NewDDGProvider(region string, timeout time.Duration, logger *slog.Logger) *DDGProvider {
	if region == "" {
		region = "tw-tzh"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DDGProvider{
		region:   region,
		htmlURL:  ddgHTMLEndpoint,
		homeURL:  ddgHomeEndpoint,
		imageURL: ddgImageEndpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (p *DDGProvider) Name() string { return "duckduckgo" }

// SearchText queries the HTML lite endpoint and parses results with goquery.
func (p *DDGProvider) SearchText(ctx context.Context, query string, maxResults int) []Result {
	form := url.Values{"q": {query}, "kl": {p.region}, "df": {""}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.htmlURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		p.logger.Warn("search.ddg.request_failed", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "https://html.duckduckgo.com/")

	body, ok := p.do(req, "text")
	if !ok {
		return nil
	}

	results, err := parseDDGHTML(body)
	if err != nil {
		p.logger.Warn("search.ddg.parse_failed", "error", err)
		return nil
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// SearchImages fetches a vqd token from the homepage, then queries the
// i.js JSON endpoint. Either step failing yields an empty slice.
func (p *DDGProvider) SearchImages(ctx context.Context, query string, maxResults int) []ImageResult {
	vqd := p.fetchVQD(ctx, query)
	if vqd == "" {
		return nil
	}

	params := url.Values{
		"q":   {query},
		"o":   {"json"},
		"vqd": {vqd},
		"l":   {p.region},
		"f":   {","},
		"p":   {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.imageURL+"?"+params.Encode(), nil)
	if err != nil {
		p.logger.Warn("search.ddg.request_failed", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Referer", ddgHomeEndpoint)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")

	body, ok := p.do(req, "images")
	if !ok {
		return nil
	}

	results, err := parseDDGImages(body)
	if err != nil {
		p.logger.Warn("search.ddg.parse_failed", "error", err)
		return nil
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func (p *DDGProvider) fetchVQD(ctx context.Context, query string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.homeURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		p.logger.Warn("search.ddg.request_failed", "error", err)
		return ""
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Referer", ddgHomeEndpoint)

	body, ok := p.do(req, "vqd")
	if !ok {
		return ""
	}
	vqd := extractVQD(string(body))
	if vqd == "" {
		p.logger.Warn("search.ddg.vqd_not_found", "bytes", len(body))
	}
	return vqd
}

func (p *DDGProvider) do(req *http.Request, op string) ([]byte, bool) {
	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("search.ddg.request_failed", "op", op, "error", err)
		return nil, false
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Warn("search.ddg.read_failed", "op", op, "error", err)
		return nil, false
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		p.logger.Warn("search.ddg.http_error", "op", op, "status", resp.StatusCode)
		return nil, false
	}

	p.logger.Debug("search.ddg.ok", "op", op,
		"elapsed_ms", time.Since(start).Milliseconds())
	return body, true
}

// parseDDGHTML extracts search results from the HTML lite response.
func parseDDGHTML(data []byte) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []Result
	doc.Find(".result, .web-result").Each(func(i int, s *goquery.Selection) {
		link := s.Find("a.result__a, .result__title a").First()
		title := strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		if !exists || title == "" {
			return
		}

		href = unwrapDDGURL(href)
		if href == "" {
			return
		}

		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		results = append(results, Result{Title: title, URL: href, Snippet: snippet})
	})

	return results, nil
}

type ddgImage struct {
	Image  string `json:"image"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ddgImageResponse struct {
	Results []ddgImage `json:"results"`
}

// parseDDGImages extracts image hits from the i.js JSON response, dropping
// URLs that are plainly not photographs.
func parseDDGImages(data []byte) ([]ImageResult, error) {
	var resp ddgImageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("ddg image json: %w", err)
	}

	var results []ImageResult
	for _, r := range resp.Results {
		if r.Image == "" || !plausiblePhotoURL(r.Image) {
			continue
		}
		results = append(results, ImageResult{
			ImageURL:  r.Image,
			SourceURL: r.URL,
			Title:     r.Title,
			Width:     r.Width,
			Height:    r.Height,
		})
	}
	return results, nil
}

// plausiblePhotoURL filters at the provider edge: known image extension
// (or none, many CDNs omit it) and no obvious non-photo token.
func plausiblePhotoURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, tok := range quickDropTokens {
		if strings.Contains(lower, tok) {
			return false
		}
	}
	path := lower
	if u, err := url.Parse(lower); err == nil {
		path = u.Path
	}
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		ext := path[idx:]
		for _, allowed := range imageExtensions {
			if ext == allowed {
				return true
			}
		}
		// some other extension like .svg or .gif
		if len(ext) <= 5 && !strings.Contains(ext, "/") {
			return false
		}
	}
	return true
}

// unwrapDDGURL extracts the destination from DDG redirect wrappers like
// //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=...
func unwrapDDGURL(href string) string {
	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if uddg := u.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

// extractVQD pulls the vqd token out of a DDG homepage response.
func extractVQD(body string) string {
	for _, pat := range vqdPatterns {
		if m := pat.FindStringSubmatch(body); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
