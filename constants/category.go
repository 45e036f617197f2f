package constants

import (
	"strings"
)

type Category string

const (
	Accounting    Category = "會計/財務類"
	Legal         Category = "法務類"
	Business      Category = "商務/管理類"
	Industry      Category = "產業專業類"
	Professional  Category = "其他專門職業"
	Uncategorized Category = "未分類"
)

var allCategories = []Category{
	Accounting,
	Legal,
	Business,
	Industry,
	Professional,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a free-form category answer onto one of the five fixed
// categories. Exact match first, then substring hints. Unmatched input
// returns Uncategorized and false.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Uncategorized, false
	}

	normalized := strings.TrimSpace(input)

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	// substring hints
	hints := []struct {
		token string
		cat   Category
	}{
		{"會計", Accounting},
		{"財務", Accounting},
		{"財會", Accounting},
		{"法務", Legal},
		{"法律", Legal},
		{"律師", Legal},
		{"商務", Business},
		{"管理", Business},
		{"經營", Business},
		{"產業", Industry},
		{"技術", Industry},
		{"工程", Industry},
		{"專門職業", Professional},
	}
	for _, h := range hints {
		if strings.Contains(normalized, h.token) {
			return h.cat, true
		}
	}

	return Uncategorized, false
}

// FolderName returns the output directory name for a category value.
// Slashes are not legal in directory names so they become underscores.
func FolderName(input string) string {
	cat, ok := Canonicalize(input)
	if !ok {
		cat = Uncategorized
	}
	return strings.ReplaceAll(string(cat), "/", "_")
}
