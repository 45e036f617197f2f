package photo

import (
	"fmt"
	"html/template"
	"os"
)

// reviewTemplate renders the photo review page. Clicking a thumbnail marks
// it as the pick for that row; the download button emits the selections
// file the enrichment run reads back.
var reviewTemplate = template.Must(template.New("review").Parse(`<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>照片審核</title>
<style>
body { font-family: "Microsoft JhengHei", sans-serif; margin: 24px; background: #f5f5f5; }
h1 { font-size: 20px; }
.person { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 16px; margin-bottom: 20px; }
.person h2 { font-size: 16px; margin: 0 0 4px; }
.meta { color: #666; font-size: 13px; margin-bottom: 10px; }
.candidates { display: flex; flex-wrap: wrap; gap: 12px; }
.candidate { width: 180px; cursor: pointer; border: 3px solid transparent; border-radius: 4px; padding: 4px; text-align: center; }
.candidate.selected { border-color: #2e7d32; background: #e8f5e9; }
.candidate img { max-width: 170px; max-height: 170px; object-fit: contain; }
.score { font-size: 12px; color: #444; }
.best { font-weight: bold; color: #2e7d32; }
.toolbar { position: sticky; top: 0; background: #fff; padding: 10px; border-bottom: 2px solid #ccc; margin-bottom: 16px; }
button { padding: 8px 16px; font-size: 14px; }
</style>
</head>
<body>
<div class="toolbar">
<button onclick="downloadSelections()">下載 photo_selections.json</button>
<span id="count">已選 0 筆</span>
</div>
<h1>照片審核（{{len .People}} 人）</h1>
{{range .People}}
<div class="person" data-row="{{.Row}}">
<h2>第 {{.Row}} 列：{{.Name}}</h2>
<div class="meta">{{.Company}}{{if .Status}} · {{.Status}}{{end}}</div>
<div class="candidates">
{{$row := .Row}}{{$best := .BestURL}}
{{range .Candidates}}
<div class="candidate{{if eq .ImageURL $best}} selected{{end}}" onclick="pick(this, {{$row}}, {{.ImageURL}})">
<img src="{{.ImageURL}}" loading="lazy" alt="{{.Title}}">
<div class="score{{if eq .ImageURL $best}} best{{end}}">分數 {{.Score}}</div>
<div class="score">{{.Width}}×{{.Height}}</div>
</div>
{{end}}
</div>
</div>
{{end}}
<script>
const selections = {};
{{range .People}}{{if .BestURL}}selections[{{.Row}}] = {url: {{.BestURL}}, status: "confirmed"};
{{end}}{{end}}
updateCount();
function pick(el, row, url) {
  const person = el.closest('.person');
  person.querySelectorAll('.candidate').forEach(c => c.classList.remove('selected'));
  el.classList.add('selected');
  selections[row] = {url: url, status: "confirmed"};
  updateCount();
}
function updateCount() {
  document.getElementById('count').textContent = '已選 ' + Object.keys(selections).length + ' 筆';
}
function downloadSelections() {
  const blob = new Blob([JSON.stringify(selections, null, 2)], {type: 'application/json'});
  const a = document.createElement('a');
  a.href = URL.createObjectURL(blob);
  a.download = 'photo_selections.json';
  a.click();
}
</script>
</body>
</html>
`))

type reviewPerson struct {
	Row        int
	Name       string
	Company    string
	Status     string
	BestURL    string
	Candidates []Candidate
}

// WriteReviewPage regenerates the review HTML from the whole store. The
// file is rewritten wholesale every run.
func WriteReviewPage(path string, store *Store) error {
	var people []reviewPerson
	for _, row := range store.Rows() {
		e, _ := store.Get(row)
		if len(e.Candidates) == 0 {
			continue
		}
		people = append(people, reviewPerson{
			Row:        row,
			Name:       e.Name,
			Company:    e.Company,
			Status:     e.Status,
			BestURL:    e.BestURL,
			Candidates: e.Candidates,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create review page: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := reviewTemplate.Execute(f, struct{ People []reviewPerson }{people}); err != nil {
		return fmt.Errorf("render review page: %w", err)
	}
	return nil
}
