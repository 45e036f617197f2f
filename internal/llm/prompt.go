package llm

import (
	"fmt"
	"strings"

	"github.com/yuhsinlo/execprofile/constants"
)

// BuildProfilePrompt composes the research instructions for one executive.
// The model acts as an executive-search researcher and must answer with a
// single JSON object matching our schema.
func BuildProfilePrompt(name, company string) string {
	parts := []string{
		"你是一位資深高階人才研究員（executive search researcher）。" +
			"請深入調查以下人士並以單一 JSON 物件回覆，不要輸出任何其他文字。",
		fmt.Sprintf("調查對象：%s", name),
		fmt.Sprintf("所屬公司：%s", company),

		"調查準則：",
		"1. 年齡：若查無確切年齡，依首份工作年份或大學畢業年份推估（大學畢業約 22 歲）。" +
			"無法推估時回 null，不要猜測。",
		"2. 學歷：務必深入查證每一段學歷，格式「學校 系所 學位」，" +
			"例如「國立台灣大學 電機工程學系 學士」。只列確認過的學歷。",
		"3. 聯絡方式：email 與公司電話盡力查證，找不到時回 null。" +
			"不要回報 info@、service@ 之類的通用信箱。",
		"4. 專業分類：從以下五類中擇一：" + strings.Join(constants.AsStringSlice(), "、") + "。",
		"5. 專業背景：一句話，格式「約 X 年在○○領域的經驗」。",
		"6. 主要經歷與現職：每項一行，格式「公司 職稱」。",
		"7. 個人特質：以編號列點，例如「1. 深厚財務專業 2. 豐富董事會經驗」。",
		"8. 獨立董事：現擔任獨立董事的家數（整數）與年資。",
		"9. photo_search_term：給出最適合搜尋本人照片的關鍵字組合。",

		"輸出 JSON 欄位（查無資料的欄位填 null）：",
		`{"company_industry": "...", "chamber_of_commerce": "...", "age": "...",` +
			` "professional_category": "...", "professional_background": "...",` +
			` "education": ["..."], "key_experience": ["..."], "current_position": ["..."],` +
			` "personal_traits": "...", "independent_director_count": 0,` +
			` "independent_director_tenure": "...", "email": "...", "phone": "...",` +
			` "photo_search_term": "..."}`,
	}
	return strings.Join(parts, "\n")
}

// fieldGuidance carries the per-column instruction used in cell mode.
var fieldGuidance = map[string]string{
	constants.ColAge:             "此人的年齡。若查無確切年齡，依首份工作或大學畢業年份推估，只回覆數字。",
	constants.ColCategory:        "從以下五類中擇一回覆，不要加任何說明：",
	constants.ColBackground:      "一句話描述專業背景，格式「約 X 年在○○領域的經驗」。",
	constants.ColEducation:       "所有查證過的學歷，每行一筆，格式「學校 系所 學位」。",
	constants.ColExperience:      "主要工作經歷，每行一筆，格式「公司 職稱」。",
	constants.ColCurrentPosition: "目前擔任的職務，每行一筆，格式「公司 職稱」。",
	constants.ColTraits:          "個人特質，以編號列點。",
	constants.ColDirectorCount:   "現擔任幾家公司的獨立董事，只回覆整數。",
	constants.ColDirectorTenure:  "擔任獨立董事的年資。",
	constants.ColEmail:           "此人的個人或公司 email，不要回報通用信箱。",
	constants.ColPhone:           "此人公司的聯絡電話。",
}

// BuildFieldPrompt composes a focused prompt for one column in cell mode.
// Unknown fields get a generic instruction so the command still works if
// a new column appears.
func BuildFieldPrompt(field, name, company string) string {
	guidance, ok := fieldGuidance[field]
	if !ok {
		guidance = fmt.Sprintf("此人的「%s」。", field)
	}
	if field == constants.ColCategory {
		guidance += strings.Join(constants.AsStringSlice(), "、") + "。"
	}

	parts := []string{
		"你是一位資深高階人才研究員。請只調查以下這一項資料，直接回覆答案本身，" +
			"不要加任何前言或說明。查無可靠資料時回覆「無資料」。",
		fmt.Sprintf("調查對象：%s（%s）", name, company),
		"要查的資料：" + guidance,
	}
	return strings.Join(parts, "\n")
}
