package photo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/search"
)

// ImageSearcher is the slice of the search client the finder needs.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, maxResults int) []search.ImageResult
}

// Candidate is a scored image hit.
type Candidate struct {
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Score     int    `json:"score"`
	Query     string `json:"query,omitempty"`
}

// Decision is the outcome of a photo search for one person.
type Decision struct {
	BestURL    string
	BestScore  int
	Status     string
	Candidates []Candidate
}

// Finder runs the multi-query photo search and scores the results.
type Finder struct {
	searcher  ImageSearcher
	client    *http.Client
	threshold int
	floor     int
	maxKeep   int
	logger    *slog.Logger
}

func NewFinder(searcher ImageSearcher, threshold, floor, maxKeep int, fetchTimeout time.Duration, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{
		searcher:  searcher,
		client:    &http.Client{Timeout: fetchTimeout},
		threshold: threshold,
		floor:     floor,
		maxKeep:   maxKeep,
		logger:    logger,
	}
}

// buildQueries assembles the photo search queries, most specific first.
// jobTitle is the first line of the current-position column when known;
// linkedinURL comes from the profile lookup strategy.
func buildQueries(name, company, jobTitle string) []string {
	queries := []string{
		fmt.Sprintf(`site:linkedin.com "%s" %s`, name, company),
	}
	if jobTitle != "" {
		queries = append(queries, fmt.Sprintf(`"%s" "%s" photo OR portrait`, name, jobTitle))
	}
	queries = append(queries,
		fmt.Sprintf(`"%s" %s 照片 OR headshot OR portrait`, name, company),
		fmt.Sprintf(`%s %s profile photo`, name, company),
	)
	return queries
}

// Find searches for a photo of the named person. Candidates scoring at or
// below the rejection floor are discarded; the rest are ranked and the top
// few retained. A best pick is only declared above the confidence
// threshold, and even then it stays pending human review.
func (f *Finder) Find(ctx context.Context, name, company, jobTitle string) Decision {
	start := time.Now()

	seen := map[string]struct{}{}
	var candidates []Candidate
	for _, q := range buildQueries(name, company, jobTitle) {
		for _, hit := range f.searcher.SearchImages(ctx, q, 10) {
			if _, dup := seen[hit.ImageURL]; dup {
				continue
			}
			seen[hit.ImageURL] = struct{}{}

			s := Score(hit, name, company)
			if s <= f.floor {
				continue
			}
			if !f.validateImageURL(ctx, hit.ImageURL) {
				continue
			}
			candidates = append(candidates, Candidate{
				ImageURL:  hit.ImageURL,
				SourceURL: hit.SourceURL,
				Title:     hit.Title,
				Width:     hit.Width,
				Height:    hit.Height,
				Score:     s,
				Query:     q,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > f.maxKeep {
		candidates = candidates[:f.maxKeep]
	}

	d := Decision{Candidates: candidates, Status: constants.PhotoNeedsManualReview}
	if len(candidates) > 0 && candidates[0].Score >= f.threshold {
		d.BestURL = candidates[0].ImageURL
		d.BestScore = candidates[0].Score
		d.Status = constants.PhotoConfirmedPendingReview
	}

	f.logger.Info("photo.find.done",
		"name", name,
		"candidates", len(candidates),
		"best_score", d.BestScore,
		"status", d.Status,
		"elapsed_ms", time.Since(start).Milliseconds())
	return d
}

// validateImageURL checks that a candidate URL plausibly serves an image.
// A recognised extension passes outright; otherwise a HEAD request must
// answer with an image content type. Network trouble counts as valid so
// flaky CDNs do not empty the candidate list.
func (f *Finder) validateImageURL(ctx context.Context, raw string) bool {
	lower := strings.ToLower(raw)
	path := lower
	if u, err := url.Parse(lower); err == nil {
		path = u.Path
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return true
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}
