package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDDGHTML = `
<html><body>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.linkedin.com%2Fin%2Fwang-xiaoming&rut=abc">王小明 - 獨立董事 - 台積電 | LinkedIn</a></h2>
  <a class="result__snippet" href="#">王小明，現任台積電獨立董事，曾任...</a>
</div>
<div class="web-result">
  <h2 class="result__title"><a class="result__a" href="https://www.example.com/bio">王小明簡歷</a></h2>
  <div class="result__snippet">學歷：國立台灣大學</div>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="javascript:void(0)">廣告</a></h2>
</div>
</body></html>`

func TestParseDDGHTML(t *testing.T) {
	results, err := parseDDGHTML([]byte(sampleDDGHTML))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "王小明 - 獨立董事 - 台積電 | LinkedIn", results[0].Title)
	assert.Equal(t, "https://www.linkedin.com/in/wang-xiaoming", results[0].URL)
	assert.Contains(t, results[0].Snippet, "現任台積電獨立董事")

	assert.Equal(t, "https://www.example.com/bio", results[1].URL)
	assert.Equal(t, "學歷：國立台灣大學", results[1].Snippet)
}

func TestParseDDGImages(t *testing.T) {
	payload := `{"results":[
		{"image":"https://media.licdn.com/photo.jpg","url":"https://www.linkedin.com/in/x","title":"王小明","width":300,"height":300},
		{"image":"https://cdn.example.com/company-logo.png","url":"https://example.com","title":"logo","width":500,"height":500},
		{"image":"https://cdn.example.com/chart.svg","url":"https://example.com","title":"chart","width":600,"height":400},
		{"image":"","url":"https://example.com","title":"empty"}
	]}`
	results, err := parseDDGImages([]byte(payload))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://media.licdn.com/photo.jpg", results[0].ImageURL)
	assert.Equal(t, 300, results[0].Width)
}

func TestExtractVQD(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"single quotes", `DDG.deep.initialize('/d.js?q=x&vqd='4-1234567890abcdef'');`, "4-1234567890abcdef"},
		{"double quotes", `vqd="4-9876"`, "4-9876"},
		{"bare", `something&vqd=4-555&kl=tw`, "4-555"},
		{"missing", `<html>no token here</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractVQD(tt.body))
		})
	}
}

func TestUnwrapDDGURL(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"redirect", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa&rut=x", "https://example.com/a"},
		{"direct", "https://example.com/b", "https://example.com/b"},
		{"javascript", "javascript:void(0)", ""},
		{"relative", "/settings", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unwrapDDGURL(tt.href))
		})
	}
}

func TestPlausiblePhotoURL(t *testing.T) {
	assert.True(t, plausiblePhotoURL("https://cdn.example.com/headshot.jpg"))
	assert.True(t, plausiblePhotoURL("https://cdn.example.com/photos/12345"))
	assert.False(t, plausiblePhotoURL("https://cdn.example.com/site-logo.png"))
	assert.False(t, plausiblePhotoURL("https://cdn.example.com/animation.gif"))
	assert.False(t, plausiblePhotoURL("https://cdn.example.com/favicon.ico"))
}

func TestDDGProviderSearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "王小明 台積電", r.PostForm.Get("q"))
		assert.Equal(t, "tw-tzh", r.PostForm.Get("kl"))
		_, _ = w.Write([]byte(sampleDDGHTML))
	}))
	defer srv.Close()

	p := NewDDGProvider("tw-tzh", 5*time.Second, nil)
	p.htmlURL = srv.URL

	results := p.SearchText(context.Background(), "王小明 台積電", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.linkedin.com/in/wang-xiaoming", results[0].URL)
}

func TestDDGProviderSearchTextFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewDDGProvider("tw-tzh", 5*time.Second, nil)
	p.htmlURL = srv.URL

	assert.Empty(t, p.SearchText(context.Background(), "x", 5))
}
