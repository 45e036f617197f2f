package main

import (
	"golang.org/x/time/rate"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/enrich"
	"github.com/yuhsinlo/execprofile/internal/llm/perplexity"
	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/search"
	"github.com/yuhsinlo/execprofile/internal/sheet"
)

// openSheet loads the enriched workbook merged over the input structure
// and makes sure every enrichable column exists.
func openSheet() (*sheet.Table, error) {
	t, err := sheet.OpenMerged(cfg.Paths.InputFile, cfg.Paths.EnrichedFile, cfg.Paths.SheetName, logger)
	if err != nil {
		return nil, err
	}
	if err := t.EnsureColumns(constants.EnrichableColumns...); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

// buildSearchClient wires the quota-limited SerpAPI provider in front of
// the DuckDuckGo scraper. A missing key just disables SerpAPI.
func buildSearchClient() (*search.Client, error) {
	quota, err := search.NewQuotaStore(cfg.Paths.QuotaFile, cfg.Search.MonthlyQuota)
	if err != nil {
		return nil, err
	}
	if cfg.Search.SerpAPIKey == "" {
		logger.Warn("search.serpapi.disabled", "reason", "SERPAPI_API_KEY not set")
	}
	serp := search.NewSerpAPIProvider(cfg.Search.SerpAPIKey, quota, cfg.Search.Timeout, logger)
	ddg := search.NewDDGProvider(cfg.Search.DDGRegion, cfg.Search.Timeout, logger)
	return search.NewClient(serp, ddg, logger), nil
}

// buildOrchestrator assembles the full strategy stack over an open sheet.
// A missing Perplexity key leaves the extractor nil; the orchestrator
// degrades to search and photo strategies only.
func buildOrchestrator(table *sheet.Table, store *photo.Store, force bool) (*enrich.Orchestrator, error) {
	client, err := buildSearchClient()
	if err != nil {
		return nil, err
	}
	finder := photo.NewFinder(client,
		cfg.Photo.ConfidenceThreshold,
		cfg.Photo.RejectionFloor,
		cfg.Photo.MaxCandidates,
		cfg.Photo.FetchTimeout,
		logger)

	deps := enrich.Deps{
		Sheet:    table,
		Searcher: client,
		Finder:   finder,
		Store:    store,
		Limiter:  rate.NewLimiter(rate.Every(cfg.Enrich.CallInterval), 1),
		MinAge:   cfg.Enrich.MinAge,
		MaxAge:   cfg.Enrich.MaxAge,
		Force:    force,
		Logger:   logger,
	}
	if cfg.LLM.APIKey != "" {
		deps.Extractor = perplexity.NewClient(perplexity.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			MaxAttempts: cfg.LLM.MaxAttempts,
		}, logger)
	} else {
		logger.Warn("llm.disabled", "reason", "PERPLEXITY_API_KEY not set")
	}
	return enrich.NewOrchestrator(deps), nil
}

// saveArtifacts persists the sheet, the photo candidate store and the
// regenerated review page after an enrichment run.
func saveArtifacts(table *sheet.Table, store *photo.Store) error {
	cleaned := table.CleanPlaceholders()
	if cleaned > 0 {
		logger.Info("sheet.placeholders_cleaned", "cells", cleaned)
	}
	savedTo, err := table.Save(cfg.Paths.EnrichedFile)
	if err != nil {
		return err
	}
	logger.Info("sheet.saved", "path", savedTo)

	if err := store.Save(); err != nil {
		logger.Warn("photo.store.save_failed", "error", err)
	}
	if err := photo.WriteReviewPage(cfg.Paths.ReviewFile, store); err != nil {
		logger.Warn("photo.review.write_failed", "error", err)
	}
	return nil
}
