package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// Pure field validators. These run after schema validation and decide
// whether an individual answer is trustworthy enough to write to the
// sheet. A rejected value is simply dropped, never an error.

var (
	ageDigitsPattern       = regexp.MustCompile(`\d+`)
	experienceYearsPattern = regexp.MustCompile(`約\s*(\d+)\s*年`)
	consecutiveDigits      = regexp.MustCompile(`\d{6,}`)

	relativeTimeEN = regexp.MustCompile(`\d+\s*days?\s+ago`)
	relativeTimeZH = regexp.MustCompile(`\d+\s*(天|小時|分鐘)前`)
)

// ExperienceYears reads "約 N 年" out of a professional background line.
func ExperienceYears(background string) (int, bool) {
	m := experienceYearsPattern.FindStringSubmatch(background)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidAge parses an age answer ("55", "55歲") and checks it against the
// plausible window and against the career length claimed in background:
// someone with 約 N 年 of experience must be at least 22+N years old.
func ValidAge(age, background string, minAge, maxAge int) (int, bool) {
	m := ageDigitsPattern.FindString(age)
	if m == "" {
		return 0, false
	}
	a, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if a < minAge || a > maxAge {
		return 0, false
	}
	if years, ok := ExperienceYears(background); ok && a < 22+years {
		return 0, false
	}
	return a, true
}

var educationKeywords = []string{
	"大學", "學院", "研究所", "學系", "系", "學士", "碩士", "博士", "畢業",
	"University", "College", "Institute", "School",
	"Bachelor", "Master", "MBA", "EMBA", "PhD", "Doctor",
	"B.S.", "M.S.", "B.A.", "M.A.", "B.B.A.", "M.B.A.",
}

// garbageTokens are substrings that mark a scraped-junk education entry:
// news metadata, quoted headlines, crime reporting, job titles.
var garbageTokens = []string{
	"·", "《", "》", "http://", "https://", "www.",
	"申請來港", "虛報", "涉", "被捕", "起訴", "判刑", "詐騙", "偽造",
	"總經理", "董事長", "執行長", "CEO", "請培養",
	"- 星島", "- 蘋果", "- Yahoo", "- ETtoday", "- 聯合", "- 中時", "- 自由",
}

// ValidEducationEntry keeps an education line only when it looks like an
// actual credential: sensible length, at least one education keyword, and
// none of the junk markers search snippets drag in.
func ValidEducationEntry(s string) bool {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	if n < 5 || n > 100 {
		return false
	}

	hasKeyword := false
	for _, kw := range educationKeywords {
		if strings.Contains(s, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}

	if relativeTimeEN.MatchString(s) || relativeTimeZH.MatchString(s) {
		return false
	}
	for _, tok := range garbageTokens {
		if strings.Contains(s, tok) {
			return false
		}
	}
	return true
}

// FilterEducation drops invalid entries, keeping order.
func FilterEducation(entries []string) []string {
	var out []string
	for _, e := range entries {
		if ValidEducationEntry(e) {
			out = append(out, strings.TrimSpace(e))
		}
	}
	return out
}

// genericEmailPrefixes are shared mailboxes, useless for reaching a person.
var genericEmailPrefixes = []string{
	"info@", "contact@", "service@", "support@", "admin@", "hello@",
}

// ValidEmail accepts a personal-looking address.
func ValidEmail(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(s, "@") {
		return false
	}
	for _, p := range genericEmailPrefixes {
		if strings.HasPrefix(s, p) {
			return false
		}
	}
	return true
}

// ValidPhone requires at least six consecutive digits once separators are
// stripped, which weeds out "02-xxx" style redactions.
func ValidPhone(s string) bool {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return consecutiveDigits.MatchString(s)
}
