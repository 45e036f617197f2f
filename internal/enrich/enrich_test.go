package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/llm"
	"github.com/yuhsinlo/execprofile/internal/normalize"
	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/search"
)

// fakeSheet holds rows as maps keyed by column name.
type fakeSheet struct {
	rows map[int]map[string]string
}

func newFakeSheet() *fakeSheet { return &fakeSheet{rows: map[int]map[string]string{}} }

func (f *fakeSheet) put(row int, col, v string) {
	if f.rows[row] == nil {
		f.rows[row] = map[string]string{}
	}
	f.rows[row][col] = v
}

func (f *fakeSheet) Get(row int, col string) string { return f.rows[row][col] }

func (f *fakeSheet) Set(row int, col, value string) error {
	f.put(row, col, value)
	return nil
}

func (f *fakeSheet) HasRow(row int) bool {
	_, ok := f.rows[row]
	return ok
}

func (f *fakeSheet) MissingFields(row int, candidates []string) []string {
	var missing []string
	for _, col := range candidates {
		if normalize.IsEmpty(f.rows[row][col]) {
			missing = append(missing, col)
		}
	}
	return missing
}

type countingSearcher struct {
	calls   int
	results []search.Result
}

func (s *countingSearcher) Search(_ context.Context, _ string, _ int) []search.Result {
	s.calls++
	return s.results
}

type fakeExtractor struct {
	profileCalls int
	fieldCalls   int
	fields       llm.ProfileFields
	fieldAnswer  string
	err          error
}

func (e *fakeExtractor) ExtractProfile(_ context.Context, _, _ string) (llm.ProfileFields, []byte, error) {
	e.profileCalls++
	return e.fields, nil, e.err
}

func (e *fakeExtractor) ExtractField(_ context.Context, _, _, _ string) (string, error) {
	e.fieldCalls++
	return e.fieldAnswer, e.err
}

type fakeFinder struct {
	calls    int
	decision photo.Decision
}

func (f *fakeFinder) Find(_ context.Context, _, _, _ string) photo.Decision {
	f.calls++
	return f.decision
}

func fullRow() map[string]string {
	m := map[string]string{
		constants.ColName:    "王小明",
		constants.ColCompany: "台積電",
	}
	for _, col := range constants.EnrichableColumns {
		m[col] = "已有資料"
	}
	m[constants.ColAge] = "55"
	m[constants.ColPhoto] = "https://example.com/p.jpg"
	m[constants.ColPhotoStatus] = constants.PhotoConfirmed
	return m
}

func TestRunIdempotentOnCompleteRow(t *testing.T) {
	fs := newFakeSheet()
	fs.rows[2] = fullRow()
	before := map[string]string{}
	for k, v := range fs.rows[2] {
		before[k] = v
	}

	searcher := &countingSearcher{}
	extractor := &fakeExtractor{}
	finder := &fakeFinder{}

	o := NewOrchestrator(Deps{Sheet: fs, Searcher: searcher, Extractor: extractor, Finder: finder})
	s := o.Run(context.Background(), []int{2}, false)

	assert.Equal(t, 1, s.Enriched)
	assert.Equal(t, 0, s.Cells)
	assert.Equal(t, 0, searcher.calls)
	assert.Equal(t, 0, extractor.profileCalls)
	assert.Equal(t, 0, finder.calls)
	assert.Equal(t, before, fs.rows[2])
}

func TestRunSkipsNamelessAndOutOfRange(t *testing.T) {
	fs := newFakeSheet()
	fs.put(2, constants.ColName, "待補充") // placeholder, counts as nameless
	fs.put(2, constants.ColCompany, "台積電")

	searcher := &countingSearcher{}
	o := NewOrchestrator(Deps{Sheet: fs, Searcher: searcher})
	s := o.Run(context.Background(), []int{2, 99}, false)

	assert.Equal(t, 2, s.Skipped)
	assert.Equal(t, 0, s.Enriched)
	assert.Equal(t, 0, searcher.calls)
}

func TestRunFillsMissingFieldsFromLLM(t *testing.T) {
	fs := newFakeSheet()
	fs.put(2, constants.ColName, "王小明")
	fs.put(2, constants.ColCompany, "台積電")
	fs.put(2, constants.ColAge, "55") // already known, must survive

	extractor := &fakeExtractor{fields: llm.ProfileFields{
		Age:                    "60", // would conflict, but age is not missing
		ProfessionalCategory:   "會計/財務類",
		ProfessionalBackground: "約 30 年在財務領域的經驗",
		Education:              []string{"國立台灣大學 會計學系 學士"},
		CurrentPosition:        []string{"台積電 財務長"},
	}}
	finder := &fakeFinder{decision: photo.Decision{
		BestURL:   "https://media.licdn.com/p.jpg",
		BestScore: 85,
		Status:    constants.PhotoConfirmedPendingReview,
	}}

	o := NewOrchestrator(Deps{
		Sheet: fs, Searcher: &countingSearcher{}, Extractor: extractor, Finder: finder,
	})
	s := o.Run(context.Background(), []int{2}, false)

	assert.Equal(t, 1, s.Enriched)
	assert.Equal(t, "55", fs.Get(2, constants.ColAge), "existing value never overwritten")
	assert.Equal(t, "會計/財務類", fs.Get(2, constants.ColCategory))
	assert.Equal(t, "國立台灣大學 會計學系 學士", fs.Get(2, constants.ColEducation))
	assert.Equal(t, "台積電 財務長", fs.Get(2, constants.ColCurrentPosition))
	assert.Equal(t, "https://media.licdn.com/p.jpg", fs.Get(2, constants.ColPhoto))
	assert.Equal(t, constants.PhotoConfirmedPendingReview, fs.Get(2, constants.ColPhotoStatus))
	assert.Equal(t, 1, extractor.profileCalls)
	assert.Equal(t, 1, finder.calls)
}

func TestRunPhotosOnly(t *testing.T) {
	fs := newFakeSheet()
	fs.put(2, constants.ColName, "王小明")
	fs.put(2, constants.ColCompany, "台積電")

	extractor := &fakeExtractor{}
	finder := &fakeFinder{decision: photo.Decision{Status: constants.PhotoNeedsManualReview}}

	o := NewOrchestrator(Deps{
		Sheet: fs, Searcher: &countingSearcher{}, Extractor: extractor, Finder: finder,
	})
	o.Run(context.Background(), []int{2}, true)

	assert.Equal(t, 0, extractor.profileCalls)
	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, constants.PhotoNeedsManualReview, fs.Get(2, constants.ColPhotoStatus))
	assert.Empty(t, fs.Get(2, constants.ColPhoto))
}

func TestRunLLMFailureIsNotFatal(t *testing.T) {
	fs := newFakeSheet()
	fs.put(2, constants.ColName, "王小明")
	fs.put(2, constants.ColCompany, "台積電")

	extractor := &fakeExtractor{err: assert.AnError}
	finder := &fakeFinder{decision: photo.Decision{Status: constants.PhotoNeedsManualReview}}

	o := NewOrchestrator(Deps{
		Sheet: fs, Searcher: &countingSearcher{}, Extractor: extractor, Finder: finder,
	})
	s := o.Run(context.Background(), []int{2}, false)

	// the photo strategy still ran and wrote a status
	assert.Equal(t, 1, s.Enriched)
	assert.Equal(t, constants.PhotoNeedsManualReview, fs.Get(2, constants.ColPhotoStatus))
}

func TestMergeFirstNonEmpty(t *testing.T) {
	missing := []string{"a", "b", "c"}
	results := []map[string]string{
		{"a": "first", "b": ""},
		{"a": "second", "b": "from-second", "c": "null"},
	}
	got := mergeFirstNonEmpty(missing, results)
	assert.Equal(t, map[string]string{"a": "first", "b": "from-second"}, got)
}

func TestApplySelections(t *testing.T) {
	fs := newFakeSheet()
	fs.put(2, constants.ColName, "王小明")
	fs.put(3, constants.ColName, "李大華")

	o := NewOrchestrator(Deps{Sheet: fs})
	applied := o.ApplySelections(map[int]photo.Selection{
		2:  {URL: "https://example.com/pick.jpg"},
		3:  {URL: "https://example.com/other.jpg", Status: "confirmed"},
		99: {URL: "https://example.com/nope.jpg"},
	})

	assert.Equal(t, 2, applied)
	assert.Equal(t, "https://example.com/pick.jpg", fs.Get(2, constants.ColPhoto))
	assert.Equal(t, constants.PhotoConfirmed, fs.Get(2, constants.ColPhotoStatus))
	assert.Equal(t, constants.PhotoConfirmed, fs.Get(3, constants.ColPhotoStatus))
}

func TestEnrichCellAgeValidated(t *testing.T) {
	fs := newFakeSheet()
	fs.put(26, constants.ColName, "王小明")
	fs.put(26, constants.ColCompany, "台積電")
	fs.put(26, constants.ColBackground, "約 25 年在財務領域的經驗")

	extractor := &fakeExtractor{fieldAnswer: "40歲"}
	o := NewOrchestrator(Deps{Sheet: fs, Extractor: extractor})

	written, err := o.EnrichCell(context.Background(), 26, constants.ColAge)
	require.NoError(t, err)
	assert.False(t, written, "40 is younger than 22+25 and must be rejected")
	assert.Empty(t, fs.Get(26, constants.ColAge))

	extractor.fieldAnswer = "55"
	written, err = o.EnrichCell(context.Background(), 26, constants.ColAge)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "55", fs.Get(26, constants.ColAge))
}

func TestEnrichCellSkipsFilledWithoutForce(t *testing.T) {
	fs := newFakeSheet()
	fs.put(26, constants.ColName, "王小明")
	fs.put(26, constants.ColEducation, "國立台灣大學 學士")

	extractor := &fakeExtractor{fieldAnswer: "史丹佛大學 碩士"}
	o := NewOrchestrator(Deps{Sheet: fs, Extractor: extractor})

	written, err := o.EnrichCell(context.Background(), 26, constants.ColEducation)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 0, extractor.fieldCalls)

	forced := NewOrchestrator(Deps{Sheet: fs, Extractor: extractor, Force: true})
	written, err = forced.EnrichCell(context.Background(), 26, constants.ColEducation)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "史丹佛大學 碩士", fs.Get(26, constants.ColEducation))
}

func TestEnrichCellPhotoRoutesToFinder(t *testing.T) {
	fs := newFakeSheet()
	fs.put(26, constants.ColName, "王小明")

	extractor := &fakeExtractor{}
	finder := &fakeFinder{decision: photo.Decision{
		BestURL: "https://media.licdn.com/p.jpg",
		Status:  constants.PhotoConfirmedPendingReview,
	}}
	o := NewOrchestrator(Deps{Sheet: fs, Extractor: extractor, Finder: finder})

	written, err := o.EnrichCell(context.Background(), 26, constants.ColPhoto)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, 0, extractor.fieldCalls)
	assert.Equal(t, "https://media.licdn.com/p.jpg", fs.Get(26, constants.ColPhoto))
}
