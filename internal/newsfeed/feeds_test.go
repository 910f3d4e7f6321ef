package newsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFeedSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: City Desk
    url: https://example.com/rss
    category: general
  - name: Sports Wire
    url: https://example.com/sports.xml
    category: sports
`), 0o644))

	sources, err := LoadFeedSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "City Desk", sources[0].Name)
	assert.Equal(t, "https://example.com/sports.xml", sources[1].URL)
	assert.Equal(t, "sports", sources[1].Category)
}

func TestLoadFeedSources_MissingFile(t *testing.T) {
	_, err := LoadFeedSources(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func rssDocument(itemCount int) string {
	var items strings.Builder
	for i := range itemCount {
		fmt.Fprintf(&items, `<item><title>story %d</title><link>https://example.com/%d</link><description>summary %d</description></item>`, i, i, i)
	}
	return `<?xml version="1.0"?><rss version="2.0"><channel><title>test</title>` + items.String() + `</channel></rss>`
}

func TestFetchAll(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssDocument(9))
	}))
	t.Cleanup(good.Close)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	agg := NewAggregator([]FeedSource{
		{Name: "working", URL: good.URL, Category: "general"},
		{Name: "broken", URL: bad.URL, Category: "general"},
	}, slog.Default())

	results := agg.FetchAll(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, "working", results[0].Source)
	assert.Empty(t, results[0].Err)
	assert.Len(t, results[0].Feed, maxEntriesPerFeed, "long feeds are truncated")
	assert.Equal(t, "story 0", results[0].Feed[0].Title)

	assert.Equal(t, "broken", results[1].Source)
	assert.Equal(t, "failed to fetch feed", results[1].Err)
	assert.Empty(t, results[1].Feed)
}
