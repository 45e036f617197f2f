package enrich

import (
	"context"
	"strconv"
	"strings"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/llm"
	"github.com/yuhsinlo/execprofile/internal/normalize"
)

// EnrichCell fills one field of one row using a focused lookup. The photo
// column routes to the photo strategy; everything else goes through the
// single-field extractor and that field's rule check. Returns whether the
// cell was written.
func (o *Orchestrator) EnrichCell(ctx context.Context, row int, field string) (bool, error) {
	if !o.sheet.HasRow(row) {
		o.logger.Warn("enrich.cell.out_of_range", "row", row)
		return false, nil
	}
	name := normalize.Clean(o.sheet.Get(row, constants.ColName))
	if name == "" {
		o.logger.Warn("enrich.cell.no_name", "row", row)
		return false, nil
	}
	company := normalize.Clean(o.sheet.Get(row, constants.ColCompany))

	if !o.force && !normalize.IsEmpty(o.sheet.Get(row, field)) {
		o.logger.Info("enrich.cell.already_filled", "row", row, "field", field)
		return false, nil
	}

	if field == constants.ColPhoto || field == constants.ColPhotoStatus {
		values := o.findPhoto(ctx, row, name, company, "", "", nil)
		written := false
		for col, v := range values {
			if err := o.sheet.Set(row, col, v); err == nil {
				written = true
			}
		}
		return written, nil
	}

	if !constants.IsSearchable(field) {
		o.logger.Warn("enrich.cell.not_searchable", "row", row, "field", field)
		return false, nil
	}
	if o.extractor == nil || o.wait(ctx) != nil {
		return false, nil
	}

	answer, err := o.extractor.ExtractField(ctx, field, name, company)
	if err != nil {
		o.logger.Warn("enrich.cell.extract_failed", "row", row, "field", field, "error", err)
		return false, nil
	}

	value := o.validateFieldValue(row, field, answer)
	if value == "" {
		o.logger.Info("enrich.cell.no_answer", "row", row, "field", field)
		return false, nil
	}
	if err := o.sheet.Set(row, field, value); err != nil {
		return false, err
	}
	o.logger.Info("enrich.cell.written", "row", row, "field", field)
	return true, nil
}

// validateFieldValue applies the same rule checks the full extraction
// path uses, per column.
func (o *Orchestrator) validateFieldValue(row int, field, answer string) string {
	answer = normalize.Clean(answer)
	if answer == "" {
		return ""
	}

	switch field {
	case constants.ColAge:
		background := o.sheet.Get(row, constants.ColBackground)
		if a, ok := llm.ValidAge(answer, background, o.minAge, o.maxAge); ok {
			return strconv.Itoa(a)
		}
		o.logger.Warn("llm.rules.age_rejected", "row", row, "age", answer)
		return ""
	case constants.ColCategory:
		if cat, ok := constants.Canonicalize(answer); ok {
			return string(cat)
		}
		return ""
	case constants.ColEducation:
		kept := llm.FilterEducation(strings.Split(answer, "\n"))
		return strings.Join(kept, "\n")
	case constants.ColEmail:
		if llm.ValidEmail(answer) {
			return answer
		}
		return ""
	case constants.ColPhone:
		if llm.ValidPhone(answer) {
			return answer
		}
		return ""
	default:
		return answer
	}
}
