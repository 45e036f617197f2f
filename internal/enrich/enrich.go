// Package enrich runs the per-row enrichment pipeline: find what is
// missing, ask the strategies in a fixed order, merge first answer wins,
// write back. Rows are processed one at a time; a rate limiter spaces
// the outbound calls.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/llm"
	"github.com/yuhsinlo/execprofile/internal/normalize"
	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/search"
)

// Sheet is the slice of the spreadsheet layer the orchestrator needs.
type Sheet interface {
	Get(row int, col string) string
	Set(row int, col, value string) error
	HasRow(row int) bool
	MissingFields(row int, candidates []string) []string
}

// TextSearcher runs a web text search.
type TextSearcher interface {
	Search(ctx context.Context, query string, maxResults int) []search.Result
}

// PhotoFinder locates photo candidates for a person.
type PhotoFinder interface {
	Find(ctx context.Context, name, company, jobTitle string) photo.Decision
}

// Deps carries the orchestrator's collaborators.
type Deps struct {
	Sheet     Sheet
	Searcher  TextSearcher
	Extractor llm.ProfileExtractor
	Finder    PhotoFinder
	Store     *photo.Store
	Limiter   *rate.Limiter
	MinAge    int
	MaxAge    int
	Force     bool
	Logger    *slog.Logger
}

type Orchestrator struct {
	sheet     Sheet
	searcher  TextSearcher
	extractor llm.ProfileExtractor
	finder    PhotoFinder
	store     *photo.Store
	limiter   *rate.Limiter
	minAge    int
	maxAge    int
	force     bool
	logger    *slog.Logger
}

// Summary counts row outcomes for one run.
type Summary struct {
	Enriched int
	Skipped  int
	Failed   int
	Cells    int
}

func NewOrchestrator(d Deps) *Orchestrator {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Limiter == nil {
		d.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if d.MinAge == 0 {
		d.MinAge = 35
	}
	if d.MaxAge == 0 {
		d.MaxAge = 85
	}
	return &Orchestrator{
		sheet:     d.Sheet,
		searcher:  d.Searcher,
		extractor: d.Extractor,
		finder:    d.Finder,
		store:     d.Store,
		limiter:   d.Limiter,
		minAge:    d.MinAge,
		maxAge:    d.MaxAge,
		force:     d.Force,
		logger:    d.Logger,
	}
}

// Run enriches the given rows in order.
func (o *Orchestrator) Run(ctx context.Context, rowNums []int, photosOnly bool) Summary {
	var s Summary
	for _, row := range rowNums {
		if ctx.Err() != nil {
			break
		}
		written, ok := o.enrichRow(ctx, row, photosOnly)
		switch {
		case !ok:
			s.Skipped++
		case written < 0:
			s.Failed++
		default:
			s.Enriched++
			s.Cells += written
		}
	}
	o.logger.Info("enrich.run.done",
		"enriched", s.Enriched, "skipped", s.Skipped,
		"failed", s.Failed, "cells", s.Cells)
	return s
}

// enrichRow returns the number of cells written and whether the row was
// processed at all. Skips (out of range, no name) report ok=false.
func (o *Orchestrator) enrichRow(ctx context.Context, row int, photosOnly bool) (int, bool) {
	if !o.sheet.HasRow(row) {
		o.logger.Warn("enrich.row.out_of_range", "row", row)
		return 0, false
	}

	name := normalize.Clean(o.sheet.Get(row, constants.ColName))
	if name == "" {
		o.logger.Warn("enrich.row.no_name", "row", row)
		return 0, false
	}
	company := normalize.Clean(o.sheet.Get(row, constants.ColCompany))

	missing := o.missingFields(row)
	if photosOnly {
		missing = keepOnly(missing, constants.ColPhoto, constants.ColPhotoStatus)
	}
	if len(missing) == 0 {
		o.logger.Info("enrich.row.complete", "row", row, "name", name)
		return 0, true
	}

	o.logger.Info("enrich.row.start",
		"row", row, "name", name, "company", company, "missing", len(missing))

	searchable := intersect(missing, constants.SearchableColumns)
	wantPhoto := contains(missing, constants.ColPhoto)

	// ordered strategies; the reducer below gives earlier answers priority
	var results []map[string]string
	var linkedinURL, photoTerm string

	if len(searchable) > 0 || wantPhoto {
		linkedinURL = o.profileLookup(ctx, name, company)
		if linkedinURL == "" {
			linkedinURL = o.bioLookup(ctx, name, company)
		}
	}

	if len(searchable) > 0 {
		values, term := o.llmExtract(ctx, name, company)
		results = append(results, values)
		photoTerm = term
	}

	if wantPhoto {
		results = append(results, o.findPhoto(ctx, row, name, company, photoTerm, linkedinURL, results))
	}

	final := mergeFirstNonEmpty(missing, results)
	written := 0
	for col, value := range final {
		if err := o.sheet.Set(row, col, value); err != nil {
			o.logger.Warn("enrich.row.write_failed", "row", row, "column", col, "error", err)
			continue
		}
		written++
	}

	o.logger.Info("enrich.row.done", "row", row, "name", name, "written", written)
	return written, true
}

// missingFields honors --force by treating every enrichable column as
// missing; photo status always travels with the photo column.
func (o *Orchestrator) missingFields(row int) []string {
	if o.force {
		return append([]string(nil), constants.EnrichableColumns...)
	}
	missing := o.sheet.MissingFields(row, constants.EnrichableColumns)
	if contains(missing, constants.ColPhoto) && !contains(missing, constants.ColPhotoStatus) {
		missing = append(missing, constants.ColPhotoStatus)
	}
	return missing
}

// profileLookup (strategy A) looks for the person's LinkedIn profile.
// It only ever contributes the profile URL as context; profile fields
// from raw search snippets proved too noisy to write.
func (o *Orchestrator) profileLookup(ctx context.Context, name, company string) string {
	if o.searcher == nil || o.wait(ctx) != nil {
		return ""
	}
	query := name + " " + company + " site:linkedin.com"
	for _, r := range o.searcher.Search(ctx, query, 5) {
		if strings.Contains(strings.ToLower(r.URL), "linkedin.com/in/") {
			o.logger.Debug("enrich.linkedin.found", "url", r.URL)
			return r.URL
		}
	}
	return ""
}

// bioLookup (strategy B) scans Chinese bio pages, again only to surface
// a LinkedIn URL the first strategy missed.
func (o *Orchestrator) bioLookup(ctx context.Context, name, company string) string {
	if o.searcher == nil || o.wait(ctx) != nil {
		return ""
	}
	query := "\"" + name + "\" " + company + " 簡歷 OR 介紹 OR 經歷 OR 學歷"
	for _, r := range o.searcher.Search(ctx, query, 5) {
		if strings.Contains(strings.ToLower(r.URL), "linkedin.com/in/") {
			o.logger.Debug("enrich.linkedin.found", "url", r.URL)
			return r.URL
		}
	}
	return ""
}

// llmExtract (strategy C) asks the LLM search API for the full profile.
func (o *Orchestrator) llmExtract(ctx context.Context, name, company string) (map[string]string, string) {
	if o.extractor == nil || o.wait(ctx) != nil {
		return nil, ""
	}
	fields, _, err := o.extractor.ExtractProfile(ctx, name, company)
	if err != nil {
		o.logger.Warn("enrich.llm.failed", "name", name, "error", err)
		return nil, ""
	}
	return fields.ToColumns(o.minAge, o.maxAge, o.logger), fields.PhotoSearchTerm
}

// findPhoto runs the photo strategy and folds candidates into the store.
// The job title passed to the finder prefers a freshly extracted current
// position over the sheet's existing one.
func (o *Orchestrator) findPhoto(ctx context.Context, row int, name, company, photoTerm, linkedinURL string, prior []map[string]string) map[string]string {
	if o.finder == nil || o.wait(ctx) != nil {
		return nil
	}

	jobTitle := firstLine(o.sheet.Get(row, constants.ColCurrentPosition))
	for _, r := range prior {
		if v, ok := r[constants.ColCurrentPosition]; ok {
			jobTitle = firstLine(v)
			break
		}
	}
	if jobTitle == "" && photoTerm != "" {
		jobTitle = photoTerm
	}
	if linkedinURL != "" {
		o.logger.Debug("enrich.photo.linkedin_context", "row", row, "url", linkedinURL)
	}

	d := o.finder.Find(ctx, name, company, jobTitle)
	if o.store != nil {
		o.store.Merge(row, name, company, d)
	}

	values := map[string]string{constants.ColPhotoStatus: d.Status}
	if d.BestURL != "" {
		values[constants.ColPhoto] = d.BestURL
	}
	return values
}

// ApplySelections writes human photo picks from the review page into the
// sheet, marking them confirmed.
func (o *Orchestrator) ApplySelections(selections map[int]photo.Selection) int {
	applied := 0
	for row, sel := range selections {
		if !o.sheet.HasRow(row) || sel.URL == "" {
			continue
		}
		status := sel.Status
		if status == "" {
			status = constants.PhotoConfirmed
		}
		if err := o.sheet.Set(row, constants.ColPhoto, sel.URL); err != nil {
			continue
		}
		_ = o.sheet.Set(row, constants.ColPhotoStatus, status)
		applied++
	}
	if applied > 0 {
		o.logger.Info("enrich.selections.applied", "rows", applied)
	}
	return applied
}

func (o *Orchestrator) wait(ctx context.Context) error {
	if err := o.limiter.Wait(ctx); err != nil {
		o.logger.Warn("enrich.pacing.interrupted", "error", err)
		return err
	}
	return nil
}

// mergeFirstNonEmpty reduces the ordered strategy results into one value
// per missing column; the first strategy to answer wins.
func mergeFirstNonEmpty(missing []string, results []map[string]string) map[string]string {
	out := map[string]string{}
	for _, col := range missing {
		for _, r := range results {
			if v := normalize.Clean(r[col]); v != "" {
				out[col] = v
				break
			}
		}
	}
	return out
}

func intersect(a, b []string) []string {
	var out []string
	for _, x := range a {
		if contains(b, x) {
			out = append(out, x)
		}
	}
	return out
}

func keepOnly(list []string, keep ...string) []string {
	var out []string
	for _, x := range list {
		if contains(keep, x) {
			out = append(out, x)
		}
	}
	return out
}

func contains(list []string, x string) bool {
	for _, item := range list {
		if item == x {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
