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

func TestClientPrefersSerpAPIWhileQuotaRemains(t *testing.T) {
	var serpHits, ddgHits int

	serpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serpHits++
		_, _ = w.Write([]byte(`{"organic_results":[{"title":"t","link":"https://a.example.com","snippet":"s"}]}`))
	}))
	defer serpSrv.Close()
	ddgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ddgHits++
		_, _ = w.Write([]byte(sampleDDGHTML))
	}))
	defer ddgSrv.Close()

	serp := NewSerpAPIProvider("key", newTestQuota(t, 60), time.Second, nil)
	serp.endpoint = serpSrv.URL
	ddg := NewDDGProvider("tw-tzh", time.Second, nil)
	ddg.htmlURL = ddgSrv.URL

	c := NewClient(serp, ddg, nil)
	results := c.Search(context.Background(), "q", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "https://a.example.com", results[0].URL)
	assert.Equal(t, 1, serpHits)
	assert.Equal(t, 0, ddgHits)

	status := c.Status()
	assert.Equal(t, "serpapi", status.PrimaryEngine)
	assert.Equal(t, 1, status.SerpAPIUsed)
}

func TestClientFallsBackWhenQuotaExhausted(t *testing.T) {
	ddgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDDGHTML))
	}))
	defer ddgSrv.Close()

	quota := newTestQuota(t, 0)
	serp := NewSerpAPIProvider("key", quota, time.Second, nil)
	ddg := NewDDGProvider("tw-tzh", time.Second, nil)
	ddg.htmlURL = ddgSrv.URL

	c := NewClient(serp, ddg, nil)
	results := c.Search(context.Background(), "q", 5)
	require.Len(t, results, 2)
	assert.Equal(t, "duckduckgo", c.Status().PrimaryEngine)
}

func TestClientFallsBackOnEmptySerpAnswer(t *testing.T) {
	serpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results":[]}`))
	}))
	defer serpSrv.Close()
	ddgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDDGHTML))
	}))
	defer ddgSrv.Close()

	serp := NewSerpAPIProvider("key", newTestQuota(t, 60), time.Second, nil)
	serp.endpoint = serpSrv.URL
	ddg := NewDDGProvider("tw-tzh", time.Second, nil)
	ddg.htmlURL = ddgSrv.URL

	c := NewClient(serp, ddg, nil)
	results := c.Search(context.Background(), "q", 5)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].URL, "linkedin.com")
}
