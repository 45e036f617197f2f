package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
		ok    bool
	}{
		{"exact match", "會計/財務類", Accounting, true},
		{"exact legal", "法務類", Legal, true},
		{"substring finance", "財務與會計專長", Accounting, true},
		{"substring lawyer", "執業律師", Legal, true},
		{"substring management", "企業管理", Business, true},
		{"substring engineering", "半導體工程背景", Industry, true},
		{"unmatched", "廚師", Uncategorized, false},
		{"empty", "", Uncategorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "會計_財務類", FolderName("會計/財務類"))
	assert.Equal(t, "未分類", FolderName("隨便寫的"))
	assert.Equal(t, "未分類", FolderName(""))
}

func TestFieldMaps(t *testing.T) {
	assert.Len(t, ColumnLetters, 15)
	assert.Len(t, FieldNumbers, 15)
	for letter, name := range ColumnLetters {
		assert.NotEmpty(t, name, "letter %s", letter)
	}
	assert.True(t, IsEnrichable(ColEducation))
	assert.False(t, IsEnrichable(ColName))
	assert.True(t, IsSearchable(ColAge))
	assert.False(t, IsSearchable(ColPhoto))
}
