package llm

// BuildProfileJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The prompt asks for exactly this shape and we validate the
// sanitized model output against it locally. The category stays a free
// string here; canonicalization onto the fixed taxonomy happens when the
// fields are applied, so one off-taxonomy answer cannot fail the document.
func BuildProfileJSONSchema() map[string]any {
	props := map[string]any{
		"company_industry":            stringProp(),
		"chamber_of_commerce":         stringProp(),
		"age":                         stringProp(),
		"professional_category":       stringProp(),
		"professional_background":     stringProp(),
		"education":                   stringArrayProp(),
		"key_experience":              stringArrayProp(),
		"current_position":            stringArrayProp(),
		"personal_traits":             stringProp(),
		"independent_director_count":  map[string]any{"type": []string{"integer", "null"}},
		"independent_director_tenure": stringProp(),
		"email":                       stringProp(),
		"phone":                       stringProp(),
		"photo_search_term":           stringProp(),
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func stringProp() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func stringArrayProp() map[string]any {
	return map[string]any{
		"type":  []string{"array", "null"},
		"items": map[string]any{"type": "string"},
	}
}
