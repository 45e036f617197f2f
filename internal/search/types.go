// Package search provides the two web-search providers and the quota-aware
// client that arbitrates between them.
package search

import "context"

// Result is one text search hit in provider-neutral form.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ImageResult is one image search hit in provider-neutral form.
type ImageResult struct {
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Provider is a single search backend. Implementations return an empty
// slice on failure and log a warning; they never propagate errors to
// callers, so one dead provider cannot sink an enrichment run.
type Provider interface {
	Name() string
	SearchText(ctx context.Context, query string, maxResults int) []Result
	SearchImages(ctx context.Context, query string, maxResults int) []ImageResult
}
