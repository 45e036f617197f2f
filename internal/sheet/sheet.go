// Package sheet wraps the candidate spreadsheet behind row/column-name
// addressing. Rows are external 1-based Excel row numbers; row 1 is the
// header and data starts at row 2.
package sheet

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/common"
	"github.com/yuhsinlo/execprofile/internal/normalize"
)

// Table is an open profile spreadsheet.
type Table struct {
	file   *excelize.File
	sheet  string
	cols   map[string]int // header name -> 1-based column index
	maxRow int
	saveAs func(path string) error
	logger *slog.Logger
}

// Open loads the spreadsheet at path and indexes its header row.
func Open(path, sheetName string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	if idx, idxErr := f.GetSheetIndex(sheetName); idxErr != nil || idx == -1 {
		// fall back to the first sheet rather than failing on a rename
		sheetName = f.GetSheetName(0)
		logger.Warn("sheet.fallback_first_sheet", "sheet", sheetName)
	}

	rowsData, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	if len(rowsData) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheetName)
	}

	cols := map[string]int{}
	for i, name := range rowsData[0] {
		name = strings.TrimSpace(name)
		if name != "" {
			cols[name] = i + 1
		}
	}

	t := &Table{
		file:   f,
		sheet:  sheetName,
		cols:   cols,
		maxRow: len(rowsData),
		logger: logger,
	}
	t.saveAs = func(path string) error { return t.file.SaveAs(path) }
	return t, nil
}

// OpenMerged opens the input spreadsheet and, when an enriched copy
// exists, overlays its non-empty enrichable values so earlier runs are
// never lost. Row structure always comes from the input file.
func OpenMerged(inputPath, enrichedPath, sheetName string, logger *slog.Logger) (*Table, error) {
	t, err := Open(inputPath, sheetName, logger)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(enrichedPath); statErr != nil {
		return t, nil
	}
	prev, err := Open(enrichedPath, sheetName, logger)
	if err != nil {
		t.logger.Warn("sheet.merge.enriched_unreadable", "path", enrichedPath, "error", err)
		return t, nil
	}

	merged := 0
	for row := 2; row <= t.maxRow; row++ {
		for _, col := range constants.EnrichableColumns {
			if _, ok := prev.cols[col]; !ok {
				continue
			}
			v := normalize.Clean(prev.Get(row, col))
			if v == "" {
				continue
			}
			t.ensureColumn(col)
			if err := t.Set(row, col, v); err == nil {
				merged++
			}
		}
	}
	t.logger.Info("sheet.merge.done", "cells", merged)
	return t, nil
}

// MaxRow returns the last row number the sheet holds.
func (t *Table) MaxRow() int { return t.maxRow }

// HasRow reports whether an external row number lies inside the data area.
func (t *Table) HasRow(row int) bool { return row >= 2 && row <= t.maxRow }

// Get returns the raw cell value for a row and column name.
func (t *Table) Get(row int, col string) string {
	idx, ok := t.cols[col]
	if !ok {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(idx, row)
	if err != nil {
		return ""
	}
	v, err := t.file.GetCellValue(t.sheet, cell)
	if err != nil {
		return ""
	}
	return v
}

// Set writes a cell value for a row and column name.
func (t *Table) Set(row int, col, value string) error {
	idx, ok := t.cols[col]
	if !ok {
		return fmt.Errorf("unknown column %q", col)
	}
	cell, err := excelize.CoordinatesToCellName(idx, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := t.file.SetCellValue(t.sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	if row > t.maxRow {
		t.maxRow = row
	}
	return nil
}

// EnsureColumns appends header cells for any named columns the sheet
// does not have yet.
func (t *Table) EnsureColumns(names ...string) error {
	for _, name := range names {
		if err := t.ensureColumn(name); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) ensureColumn(name string) error {
	if _, ok := t.cols[name]; ok {
		return nil
	}
	idx := 1
	for _, existing := range t.cols {
		if existing >= idx {
			idx = existing + 1
		}
	}
	cell, err := excelize.CoordinatesToCellName(idx, 1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := t.file.SetCellValue(t.sheet, cell, name); err != nil {
		return fmt.Errorf("write header %q: %w", name, err)
	}
	t.cols[name] = idx
	return nil
}

// MissingFields returns the subset of candidate columns whose value in
// the row normalizes to empty.
func (t *Table) MissingFields(row int, candidates []string) []string {
	var missing []string
	for _, col := range candidates {
		if normalize.IsEmpty(t.Get(row, col)) {
			missing = append(missing, col)
		}
	}
	return missing
}

// CleanPlaceholders blanks every enrichable cell whose value is only a
// placeholder, so later missing-field detection is honest.
func (t *Table) CleanPlaceholders() int {
	cleaned := 0
	for row := 2; row <= t.maxRow; row++ {
		for _, col := range constants.EnrichableColumns {
			if _, ok := t.cols[col]; !ok {
				continue
			}
			raw := t.Get(row, col)
			if raw == "" {
				continue
			}
			if v := normalize.Clean(raw); v != raw {
				if err := t.Set(row, col, v); err == nil {
					cleaned++
				}
			}
		}
	}
	return cleaned
}

// Save writes the table to path. A locked file (open in Excel) falls back
// to an alternate "_backup" name with a warning; any other failure is an
// error the caller should abort on. Returns the path actually written.
func (t *Table) Save(path string) (string, error) {
	err := t.saveAs(path)
	if err == nil {
		return path, nil
	}
	if !isLockedError(err) {
		return "", fmt.Errorf("save spreadsheet %s: %w", path, err)
	}

	alt := backupPath(path)
	t.logger.Warn("sheet.save.locked", "path", path, "fallback", alt)
	if altErr := t.saveAs(alt); altErr != nil {
		return "", common.NewAppError("SHEET_LOCKED",
			fmt.Sprintf("cannot save %s or fallback %s: %v", path, alt, altErr),
			common.ErrFileLocked)
	}
	return alt, nil
}

// Close releases the underlying workbook.
func (t *Table) Close() error {
	return t.file.Close()
}

func isLockedError(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "used by another process") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "resource busy")
}

func backupPath(path string) string {
	if idx := strings.LastIndex(path, "."); idx > 0 {
		return path[:idx] + "_backup" + path[idx:]
	}
	return path + "_backup"
}
