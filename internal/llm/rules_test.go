package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAge(t *testing.T) {
	tests := []struct {
		name       string
		age        string
		background string
		want       int
		ok         bool
	}{
		{"plain number", "55", "", 55, true},
		{"with suffix", "62歲", "", 62, true},
		{"below window", "30", "", 0, false},
		{"above window", "90", "", 0, false},
		{"consistent with career", "55", "約 30 年在財務領域的經驗", 55, true},
		{"too young for career", "40", "約 25 年在財務領域的經驗", 0, false},
		{"boundary exact", "47", "約 25 年在財務領域的經驗", 47, true},
		{"no digits", "未知", "", 0, false},
		{"empty", "", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValidAge(tt.age, tt.background, 35, 85)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExperienceYears(t *testing.T) {
	n, ok := ExperienceYears("約 30 年在科技產業的經驗")
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	n, ok = ExperienceYears("約30年經驗")
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = ExperienceYears("資深財務主管")
	assert.False(t, ok)
}

func TestValidEducationEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  bool
	}{
		{"valid degree", "國立台灣大學 電機工程學系 學士", true},
		{"valid english", "Harvard Business School MBA", true},
		{"too short", "台大", false},
		{"no keyword", "在台北出生長大後赴美發展", false},
		{"relative time en", "1 day ago 22歲就讀嶺南大學", false},
		{"relative time zh", "3 小時前 · 國立台灣大學", false},
		{"news dot", "國立台灣大學 · 聯合新聞網", false},
		{"quoted headline", "《台大畢業生出任獨董》", false},
		{"url", "https://example.com 台灣大學", false},
		{"job title noise", "台灣大學畢業後任執行長CEO", false},
		{"outlet suffix", "台灣大學法律系 - 星島日報", false},
		{"crime reporting", "涉詐騙遭起訴的大學生", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEducationEntry(tt.entry))
		})
	}
}

func TestFilterEducation(t *testing.T) {
	in := []string{
		"1 day ago · 22歲就讀嶺南大學",
		"國立台灣大學 電機系 學士",
	}
	out := FilterEducation(in)
	assert.Equal(t, []string{"國立台灣大學 電機系 學士"}, out)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("wang.xiaoming@tsmc.com"))
	assert.False(t, ValidEmail("info@tsmc.com"))
	assert.False(t, ValidEmail("Service@tsmc.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("hello@company.tw"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("02-2345-6789"))
	assert.True(t, ValidPhone("+886 2 2345 6789"))
	assert.False(t, ValidPhone("02-23"))
	assert.False(t, ValidPhone("分機123"))
}
