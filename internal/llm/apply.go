package llm

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/normalize"
)

// ToColumns converts validated profile fields into spreadsheet values
// keyed by column name. Values that fail their rule check are dropped
// with a diagnostic log line; the caller never sees them.
func (f ProfileFields) ToColumns(minAge, maxAge int, logger *slog.Logger) map[string]string {
	if logger == nil {
		logger = slog.Default()
	}
	out := map[string]string{}
	set := func(col, val string) {
		if v := normalize.Clean(val); v != "" {
			out[col] = v
		}
	}

	if f.Age != "" {
		if a, ok := ValidAge(f.Age, f.ProfessionalBackground, minAge, maxAge); ok {
			out[constants.ColAge] = strconv.Itoa(a)
		} else {
			logger.Warn("llm.rules.age_rejected",
				"age", f.Age,
				"background", f.ProfessionalBackground)
		}
	}

	if f.ProfessionalCategory != "" {
		if cat, ok := constants.Canonicalize(f.ProfessionalCategory); ok {
			out[constants.ColCategory] = string(cat)
		} else {
			logger.Warn("llm.rules.category_rejected", "category", f.ProfessionalCategory)
		}
	}

	set(constants.ColBackground, f.ProfessionalBackground)

	if kept := FilterEducation(f.Education); len(kept) > 0 {
		out[constants.ColEducation] = strings.Join(kept, "\n")
	} else if len(f.Education) > 0 {
		logger.Warn("llm.rules.education_rejected", "entries", len(f.Education))
	}

	set(constants.ColExperience, joinClean(f.KeyExperience))
	set(constants.ColCurrentPosition, joinClean(f.CurrentPosition))
	set(constants.ColTraits, f.PersonalTraits)

	if f.IndependentDirectorCount != nil {
		out[constants.ColDirectorCount] = strconv.Itoa(*f.IndependentDirectorCount)
	}
	set(constants.ColDirectorTenure, f.IndependentDirectorTenure)

	if f.Email != "" {
		if ValidEmail(f.Email) {
			out[constants.ColEmail] = strings.TrimSpace(f.Email)
		} else {
			logger.Warn("llm.rules.email_rejected", "email", f.Email)
		}
	}
	if f.Phone != "" {
		if ValidPhone(f.Phone) {
			out[constants.ColPhone] = strings.TrimSpace(f.Phone)
		} else {
			logger.Warn("llm.rules.phone_rejected", "phone", f.Phone)
		}
	}

	return out
}

func joinClean(items []string) string {
	var kept []string
	for _, item := range items {
		if v := normalize.Clean(item); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "\n")
}
