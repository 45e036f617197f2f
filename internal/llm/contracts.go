// Package llm defines the profile extraction contract: the typed fields
// the LLM search API must return, the JSON schema they are validated
// against, and the rule checks applied before anything reaches the sheet.
package llm

import "context"

// ProfileFields is the normalized shape we want from the LLM.
type ProfileFields struct {
	CompanyIndustry           string   `json:"company_industry,omitempty"`
	ChamberOfCommerce         string   `json:"chamber_of_commerce,omitempty"`
	Age                       string   `json:"age,omitempty"`
	ProfessionalCategory      string   `json:"professional_category,omitempty"`
	ProfessionalBackground    string   `json:"professional_background,omitempty"`
	Education                 []string `json:"education,omitempty"`
	KeyExperience             []string `json:"key_experience,omitempty"`
	CurrentPosition           []string `json:"current_position,omitempty"`
	PersonalTraits            string   `json:"personal_traits,omitempty"`
	IndependentDirectorCount  *int     `json:"independent_director_count,omitempty"`
	IndependentDirectorTenure string   `json:"independent_director_tenure,omitempty"`
	Email                     string   `json:"email,omitempty"`
	Phone                     string   `json:"phone,omitempty"`
	PhotoSearchTerm           string   `json:"photo_search_term,omitempty"`
}

// ProfileExtractor is the interface the orchestrator depends on.
type ProfileExtractor interface {
	// ExtractProfile researches the person and returns the full field set
	// plus the raw JSON the model produced.
	ExtractProfile(ctx context.Context, name, company string) (ProfileFields, []byte /*rawJSON*/, error)

	// ExtractField researches a single column and returns its value as
	// plain text, or "" when nothing reliable was found.
	ExtractField(ctx context.Context, field, name, company string) (string, error)
}
