package constants

// Profile column names as they appear in the spreadsheet header row.
const (
	ColName            = "姓名（中英）"
	ColCompany         = "所屬公司"
	ColAge             = "年齡"
	ColPhoto           = "照片"
	ColPhotoStatus     = "照片狀態"
	ColCategory        = "專業分類"
	ColBackground      = "專業背景"
	ColEducation       = "學歷"
	ColExperience      = "主要經歷"
	ColCurrentPosition = "現職/任"
	ColTraits          = "個人特質"
	ColDirectorCount   = "現擔任獨董家數(年)"
	ColDirectorTenure  = "擔任獨董年資(年)"
	ColEmail           = "電子郵件"
	ColPhone           = "公司電話"
)

// ColumnLetters maps spreadsheet column letters to header names, in sheet
// order. Letters are what users type in cell references like "H26".
var ColumnLetters = map[string]string{
	"A": ColName,
	"B": ColCompany,
	"C": ColAge,
	"D": ColPhoto,
	"E": ColPhotoStatus,
	"F": ColCategory,
	"G": ColBackground,
	"H": ColEducation,
	"I": ColExperience,
	"J": ColCurrentPosition,
	"K": ColTraits,
	"L": ColDirectorCount,
	"M": ColDirectorTenure,
	"N": ColEmail,
	"O": ColPhone,
}

// FieldNumbers maps 1-based field numbers (as shown in the cell command help)
// to header names.
var FieldNumbers = map[int]string{
	1:  ColName,
	2:  ColCompany,
	3:  ColAge,
	4:  ColPhoto,
	5:  ColPhotoStatus,
	6:  ColCategory,
	7:  ColBackground,
	8:  ColEducation,
	9:  ColExperience,
	10: ColCurrentPosition,
	11: ColTraits,
	12: ColDirectorCount,
	13: ColDirectorTenure,
	14: ColEmail,
	15: ColPhone,
}

// EnrichableColumns are the columns the enrichment run may fill in. Name and
// company are inputs and are never written.
var EnrichableColumns = []string{
	ColAge,
	ColPhoto,
	ColPhotoStatus,
	ColCategory,
	ColBackground,
	ColEducation,
	ColExperience,
	ColCurrentPosition,
	ColTraits,
	ColDirectorCount,
	ColDirectorTenure,
	ColEmail,
	ColPhone,
}

// SearchableColumns are the subset of enrichable columns the LLM extractor
// can answer for. Photo and photo status are owned by the photo finder.
var SearchableColumns = []string{
	ColAge,
	ColCategory,
	ColBackground,
	ColEducation,
	ColExperience,
	ColCurrentPosition,
	ColTraits,
	ColDirectorCount,
	ColDirectorTenure,
	ColEmail,
	ColPhone,
}

// Photo status tags written to the 照片狀態 column.
const (
	PhotoConfirmedPendingReview = "confirmed-pending-review"
	PhotoNeedsManualReview      = "needs-manual-review"
	PhotoConfirmed              = "confirmed"
)

// IsEnrichable reports whether the named column may be written by a run.
func IsEnrichable(name string) bool {
	for _, c := range EnrichableColumns {
		if c == name {
			return true
		}
	}
	return false
}

// IsSearchable reports whether the named column is answered by the extractor.
func IsSearchable(name string) bool {
	for _, c := range SearchableColumns {
		if c == name {
			return true
		}
	}
	return false
}
