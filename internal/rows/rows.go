// Package rows parses the row and cell target expressions accepted on the
// command line, e.g. "2,5-10" or "H26,學歷:26-30".
package rows

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yuhsinlo/execprofile/constants"
)

// ErrNoRows is returned when an expression yields no usable row numbers.
var ErrNoRows = errors.New("no valid row numbers")

var rangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseRows expands a row expression like "2,5-10" into a sorted list of
// distinct row numbers. Chinese commas are accepted. Row 1 is the header
// and is always discarded. Reversed ranges are swapped. Malformed tokens
// are logged and skipped; an empty result is an error, not a panic.
func ParseRows(expr string, logger *slog.Logger) ([]int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	expr = strings.ReplaceAll(expr, "，", ",")
	expr = strings.ReplaceAll(expr, " ", "")

	seen := map[int]struct{}{}
	for _, tok := range strings.Split(expr, ",") {
		if tok == "" {
			continue
		}
		if m := rangePattern.FindStringSubmatch(tok); m != nil {
			lo, _ := strconv.Atoi(m[1])
			hi, _ := strconv.Atoi(m[2])
			if lo > hi {
				lo, hi = hi, lo
			}
			for r := lo; r <= hi; r++ {
				seen[r] = struct{}{}
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			logger.Warn("rows.parse.skip", "token", tok)
			continue
		}
		seen[n] = struct{}{}
	}

	delete(seen, 1)

	if len(seen) == 0 {
		return nil, ErrNoRows
	}
	out := make([]int, 0, len(seen))
	for r := range seen {
		if r < 1 {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	sort.Ints(out)
	return out, nil
}

// CellRef addresses one field in one row.
type CellRef struct {
	Field string
	Row   int
}

var (
	letterCellPattern  = regexp.MustCompile(`^([A-Oa-o])(\d+)$`)
	letterRangePattern = regexp.MustCompile(`^([A-Oa-o])(\d+)-([A-Oa-o])?(\d+)$`)
	fieldRowsPattern   = regexp.MustCompile(`^(.+?)[:：](.+)$`)
)

// ParseCells expands a cell expression into field/row pairs. Supported
// forms: "H26", "H26-H30" (same column only), "學歷:26-30", "8:26".
// Malformed or cross-column tokens are logged and skipped.
func ParseCells(expr string, logger *slog.Logger) ([]CellRef, error) {
	if logger == nil {
		logger = slog.Default()
	}
	expr = strings.ReplaceAll(expr, "，", ",")
	expr = strings.TrimSpace(expr)

	var out []CellRef
	for _, tok := range strings.Split(expr, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		if m := letterRangePattern.FindStringSubmatch(tok); m != nil {
			if m[3] != "" && !strings.EqualFold(m[1], m[3]) {
				logger.Warn("cells.parse.cross_column", "token", tok)
				continue
			}
			field, ok := constants.ColumnLetters[strings.ToUpper(m[1])]
			if !ok {
				logger.Warn("cells.parse.unknown_column", "token", tok)
				continue
			}
			lo, _ := strconv.Atoi(m[2])
			hi, _ := strconv.Atoi(m[4])
			if lo > hi {
				lo, hi = hi, lo
			}
			for r := lo; r <= hi; r++ {
				if r > 1 {
					out = append(out, CellRef{Field: field, Row: r})
				}
			}
			continue
		}

		if m := letterCellPattern.FindStringSubmatch(tok); m != nil {
			field, ok := constants.ColumnLetters[strings.ToUpper(m[1])]
			if !ok {
				logger.Warn("cells.parse.unknown_column", "token", tok)
				continue
			}
			r, _ := strconv.Atoi(m[2])
			if r > 1 {
				out = append(out, CellRef{Field: field, Row: r})
			}
			continue
		}

		if m := fieldRowsPattern.FindStringSubmatch(tok); m != nil {
			field, err := ResolveField(m[1])
			if err != nil {
				logger.Warn("cells.parse.unknown_field", "token", tok, "error", err)
				continue
			}
			rowNums, err := ParseRows(m[2], logger)
			if err != nil {
				logger.Warn("cells.parse.bad_rows", "token", tok)
				continue
			}
			for _, r := range rowNums {
				out = append(out, CellRef{Field: field, Row: r})
			}
			continue
		}

		logger.Warn("cells.parse.skip", "token", tok)
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// ResolveField maps a user-supplied field designator onto a column name.
// Accepts field numbers ("8"), column letters ("H"), exact column names,
// and unique substrings of column names.
func ResolveField(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty field designator")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if name, ok := constants.FieldNumbers[n]; ok {
			return name, nil
		}
		return "", fmt.Errorf("no field numbered %d", n)
	}

	if len(s) == 1 {
		if name, ok := constants.ColumnLetters[strings.ToUpper(s)]; ok {
			return name, nil
		}
	}

	for _, name := range constants.ColumnLetters {
		if s == name {
			return name, nil
		}
	}

	var matches []string
	for _, name := range constants.ColumnLetters {
		if strings.Contains(name, s) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unknown field %q", s)
	default:
		return "", fmt.Errorf("ambiguous field %q matches %d columns", s, len(matches))
	}
}
