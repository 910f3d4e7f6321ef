package newsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

const maxEntriesPerFeed = 7

// FeedSource is one configured RSS feed.
type FeedSource struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"-"`
	Category string `yaml:"category" json:"category"`
}

// LoadFeedSources reads the RSS source list from a yaml file.
func LoadFeedSources(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed sources: %w", err)
	}
	var cfg struct {
		Sources []FeedSource `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse feed sources: %w", err)
	}
	return cfg.Sources, nil
}

// FeedItem is one RSS entry as served to clients.
type FeedItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// FeedResult groups the entries of one source. Err is set when the feed
// could not be fetched; other sources still deliver.
type FeedResult struct {
	Source   string     `json:"source"`
	Category string     `json:"category"`
	Feed     []FeedItem `json:"feed"`
	Err      string     `json:"error,omitempty"`
}

// Aggregator fans out over the configured RSS sources.
type Aggregator struct {
	sources []FeedSource
	parser  *gofeed.Parser
	logger  *slog.Logger
}

func NewAggregator(sources []FeedSource, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		parser:  gofeed.NewParser(),
		logger:  logger,
	}
}

// FetchAll pulls every source concurrently and returns the results in
// source order. A failing source yields a result with Err set.
func (a *Aggregator) FetchAll(ctx context.Context) []FeedResult {
	results := make([]FeedResult, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, src)
		}()
	}
	wg.Wait()

	return results
}

func (a *Aggregator) fetchOne(ctx context.Context, src FeedSource) FeedResult {
	result := FeedResult{Source: src.Name, Category: src.Category}

	feed, err := a.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		a.logger.Warn("feed fetch failed", "source", src.Name, "error", err)
		result.Err = "failed to fetch feed"
		return result
	}

	items := feed.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}
	for _, item := range items {
		result.Feed = append(result.Feed, FeedItem{
			Title:     item.Title,
			Summary:   item.Description,
			Link:      item.Link,
			Published: item.Published,
		})
	}
	return result
}
