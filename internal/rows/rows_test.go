package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhsinlo/execprofile/constants"
)

func TestParseRows(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    []int
		wantErr bool
	}{
		{"single", "5", []int{5}, false},
		{"list", "2,4,3", []int{2, 3, 4}, false},
		{"range", "5-8", []int{5, 6, 7, 8}, false},
		{"reversed range", "8-5", []int{5, 6, 7, 8}, false},
		{"chinese comma", "2，4", []int{2, 4}, false},
		{"header excluded", "26-30,1", []int{26, 27, 28, 29, 30}, false},
		{"duplicates collapsed", "3,3,2-3", []int{2, 3}, false},
		{"malformed tokens skipped", "abc,7,x-y", []int{7}, false},
		{"spaces tolerated", " 2 , 5 - 6 ", []int{2, 5, 6}, false},
		{"only header", "1", nil, true},
		{"empty", "", nil, true},
		{"all malformed", "abc,def", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRows(tt.expr, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoRows)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCells(t *testing.T) {
	t.Run("letter cell", func(t *testing.T) {
		got, err := ParseCells("H26", nil)
		require.NoError(t, err)
		assert.Equal(t, []CellRef{{Field: constants.ColEducation, Row: 26}}, got)
	})

	t.Run("letter range", func(t *testing.T) {
		got, err := ParseCells("H26-H28", nil)
		require.NoError(t, err)
		assert.Equal(t, []CellRef{
			{Field: constants.ColEducation, Row: 26},
			{Field: constants.ColEducation, Row: 27},
			{Field: constants.ColEducation, Row: 28},
		}, got)
	})

	t.Run("field name with rows", func(t *testing.T) {
		got, err := ParseCells("學歷:26-27", nil)
		require.NoError(t, err)
		assert.Equal(t, []CellRef{
			{Field: constants.ColEducation, Row: 26},
			{Field: constants.ColEducation, Row: 27},
		}, got)
	})

	t.Run("field number with chinese colon", func(t *testing.T) {
		got, err := ParseCells("8：26", nil)
		require.NoError(t, err)
		assert.Equal(t, []CellRef{{Field: constants.ColEducation, Row: 26}}, got)
	})

	t.Run("mixed list skips bad tokens", func(t *testing.T) {
		got, err := ParseCells("H26,Z99,年齡:30", nil)
		require.NoError(t, err)
		assert.Equal(t, []CellRef{
			{Field: constants.ColEducation, Row: 26},
			{Field: constants.ColAge, Row: 30},
		}, got)
	})

	t.Run("cross column range rejected", func(t *testing.T) {
		_, err := ParseCells("H26-J30", nil)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("header row excluded", func(t *testing.T) {
		_, err := ParseCells("H1", nil)
		assert.ErrorIs(t, err, ErrNoRows)
	})
}

func TestResolveField(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"8", constants.ColEducation, false},
		{"H", constants.ColEducation, false},
		{"h", constants.ColEducation, false},
		{"學歷", constants.ColEducation, false},
		{"電子郵件", constants.ColEmail, false},
		{"獨董年資", constants.ColDirectorTenure, false},
		{"99", "", true},
		{"不存在的欄位", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolveField(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
