package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// ExtractJSONObject pulls the first balanced JSON object out of a model
// reply. Handles code fences and leading prose. Returns an error when no
// object can be found.
func ExtractJSONObject(content string) ([]byte, error) {
	s := strings.TrimSpace(content)

	// strip ```json ... ``` fences
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return []byte(s[start : i+1]), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unbalanced JSON object in reply")
}

var stringFields = []string{
	"company_industry", "chamber_of_commerce", "age", "professional_category",
	"professional_background", "personal_traits", "independent_director_tenure",
	"email", "phone", "photo_search_term",
}

var arrayFields = []string{"education", "key_experience", "current_position"}

// NormalizeAndSanitizeJSON
// - Coerces numeric -> string for string fields (models love bare numbers)
// - Coerces a lone string -> one-element array for the list fields
// - Drops null/empty values and unknown keys
// (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	for _, k := range stringFields {
		if v, ok := m[k]; ok {
			switch t := v.(type) {
			case float64:
				if t == float64(int64(t)) {
					m[k] = fmt.Sprintf("%d", int64(t))
				} else {
					m[k] = fmt.Sprintf("%v", t)
				}
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					delete(m, k)
					dropped = append(dropped, k+"(empty)")
				} else {
					m[k] = s
				}
			case nil:
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			default:
				delete(m, k)
				dropped = append(dropped, k+"(type)")
			}
		}
	}

	for _, k := range arrayFields {
		if v, ok := m[k]; ok {
			switch t := v.(type) {
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					delete(m, k)
					dropped = append(dropped, k+"(empty)")
				} else {
					// a newline-joined blob becomes a proper list
					m[k] = splitLines(s)
				}
			case []any:
				items := make([]string, 0, len(t))
				for _, item := range t {
					if s, ok := item.(string); ok {
						if s = strings.TrimSpace(s); s != "" {
							items = append(items, s)
						}
					}
				}
				if len(items) == 0 {
					delete(m, k)
					dropped = append(dropped, k+"(empty)")
				} else {
					m[k] = items
				}
			case nil:
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			default:
				delete(m, k)
				dropped = append(dropped, k+"(type)")
			}
		}
	}

	// independent_director_count: integer or null, reject junk
	if v, ok := m["independent_director_count"]; ok {
		switch t := v.(type) {
		case float64:
			m["independent_director_count"] = int(t)
		case string:
			delete(m, "independent_director_count")
			dropped = append(dropped, "independent_director_count(type)")
		case nil:
			delete(m, "independent_director_count")
			dropped = append(dropped, "independent_director_count(null)")
		}
	}

	// remove unknown keys
	allowed := map[string]struct{}{"independent_director_count": {}}
	for _, k := range stringFields {
		allowed[k] = struct{}{}
	}
	for _, k := range arrayFields {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
