// Package normalize decides whether a cell value counts as real data.
// Search engines and LLMs hand back a zoo of "no answer" spellings; the
// rest of the pipeline only ever asks one question about a value: is it
// actually filled in.
package normalize

import (
	"fmt"
	"math"
	"strings"
)

// placeholders are exact (case-insensitive) values that mean "empty".
var placeholders = map[string]struct{}{
	"null":      {},
	"none":      {},
	"nan":       {},
	"n/a":       {},
	"na":        {},
	"undefined": {},
	"nil":       {},
	"已略過":       {},
	"待補充":       {},
	"(待補充)":     {},
	"（待補充）":     {},
	"無":         {},
	"無資料":       {},
	"找不到":       {},
	"未知":        {},
	"不明":        {},
	"暫無":        {},
	"尚無":        {},
	"缺":         {},
	"空":         {},
}

// skipPrefixes mark negative-result sentences ("無法確認...", "查無資料...").
var skipPrefixes = []string{"無法", "找不到", "查無", "尚未", "暫無法"}

// Clean returns the trimmed string form of v, or "" when v carries no
// information: nil, NaN, blank, a placeholder token, or a sentence that
// starts with a negative-result prefix. Clean(Clean(v)) == Clean(v).
func Clean(v any) string {
	if v == nil {
		return ""
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		s = fmt.Sprintf("%v", t)
	case float32:
		if math.IsNaN(float64(t)) {
			return ""
		}
		s = fmt.Sprintf("%v", t)
	default:
		s = fmt.Sprintf("%v", t)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, ok := placeholders[strings.ToLower(s)]; ok {
		return ""
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(s, p) {
			return ""
		}
	}
	return s
}

// IsEmpty reports whether v normalizes to "".
func IsEmpty(v any) bool {
	return Clean(v) == ""
}
