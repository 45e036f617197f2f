package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhsinlo/execprofile/internal/common"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"bare object", `{"age": "55"}`, `{"age": "55"}`, false},
		{"fenced", "```json\n{\"age\": \"55\"}\n```", `{"age": "55"}`, false},
		{"plain fence", "```\n{\"age\": \"55\"}\n```", `{"age": "55"}`, false},
		{"leading prose", `根據調查結果如下：{"age": "55"}`, `{"age": "55"}`, false},
		{"trailing prose", `{"age": "55"} 以上是調查結果`, `{"age": "55"}`, false},
		{"nested", `{"a": {"b": "c"}}`, `{"a": {"b": "c"}}`, false},
		{"brace in string", `{"note": "公司 {台積電}"}`, `{"note": "公司 {台積電}"}`, false},
		{"no object", "查無資料", "", true},
		{"unbalanced", `{"age": "55"`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeAndSanitizeJSON(t *testing.T) {
	raw := []byte(`{
		"age": 55,
		"professional_category": "會計/財務類",
		"education": "國立台灣大學 電機系 學士\n史丹佛大學 碩士",
		"key_experience": ["台積電 財務長", "", 42],
		"current_position": null,
		"independent_director_count": 2,
		"personal_traits": "  1. 嚴謹  ",
		"email": "",
		"citations": ["https://example.com"],
		"unexpected_key": {"x": 1}
	}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Equal(t, "55", m["age"])
	assert.Equal(t, "會計/財務類", m["professional_category"])
	assert.Equal(t, []any{"國立台灣大學 電機系 學士", "史丹佛大學 碩士"}, m["education"])
	assert.Equal(t, []any{"台積電 財務長"}, m["key_experience"])
	assert.Equal(t, "1. 嚴謹", m["personal_traits"])
	assert.EqualValues(t, 2, m["independent_director_count"])

	assert.NotContains(t, m, "current_position")
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "citations")
	assert.NotContains(t, m, "unexpected_key")

	assert.Contains(t, dropped, "current_position(null)")
	assert.Contains(t, dropped, "email(empty)")
	assert.Contains(t, dropped, "citations(unknown)")
}

func TestSanitizedOutputPassesSchema(t *testing.T) {
	raw := []byte(`{
		"age": 55,
		"education": "國立台灣大學 電機系 學士",
		"independent_director_count": null,
		"confidence": 0.9
	}`)
	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(BuildProfileJSONSchema(), out))

	var fields ProfileFields
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "55", fields.Age)
	assert.Equal(t, []string{"國立台灣大學 電機系 學士"}, fields.Education)
	assert.Nil(t, fields.IndependentDirectorCount)
}

func TestValidateJSONAgainstSchemaRejects(t *testing.T) {
	schema := BuildProfileJSONSchema()
	err := ValidateJSONAgainstSchema(schema, []byte(`{"age": 55}`))
	assert.Error(t, err, "numeric age must fail after the string-only schema")
	assert.ErrorIs(t, err, common.ErrValidation)

	err = ValidateJSONAgainstSchema(schema, []byte(`{"bogus": "x"}`))
	assert.ErrorIs(t, err, common.ErrValidation)
}
