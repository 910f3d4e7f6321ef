package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

const fetchPageSize = 10

// FetchQuery describes one fetch pass against the news source.
type FetchQuery struct {
	Query       string
	CountryCode string
	Level       domain.ScopeLevel
	// Cutoff is the oldest publication time still accepted. Stories at or
	// past it stop the pagination.
	Cutoff time.Time
}

// Fetcher pulls dated news stories from an external source.
type Fetcher interface {
	Fetch(ctx context.Context, q FetchQuery) ([]domain.RawStory, error)
}

// SearchFetcher implements Fetcher against a paginated news search API.
// Results arrive newest first with relative publication dates.
type SearchFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

func NewSearchFetcher(baseURL, apiKey string, client *http.Client, logger *slog.Logger) *SearchFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SearchFetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
}

type searchResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	Thumbnail string `json:"thumbnail"`
}

type searchResponse struct {
	OrganicResults []searchResult `json:"organic_results"`
}

// Fetch walks the result pages newest first, keeping stories until one
// falls past the cutoff. Duplicate links within a pass are dropped.
func (f *SearchFetcher) Fetch(ctx context.Context, q FetchQuery) ([]domain.RawStory, error) {
	var (
		stories   []domain.RawStory
		seenLinks = map[string]bool{}
		offset    = 0
	)

	for {
		page, err := f.fetchPage(ctx, q, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		reachedCutoff := false
		for _, result := range page {
			publishedAt, ok := ParseRelativeDate(result.Date, f.now().UTC())
			if !ok {
				continue
			}
			if publishedAt.Before(q.Cutoff) {
				reachedCutoff = true
				break
			}
			if result.Link == "" || seenLinks[result.Link] {
				continue
			}
			seenLinks[result.Link] = true
			stories = append(stories, domain.RawStory{
				ID:                 uuid.New(),
				Title:              result.Title,
				Snippet:            result.Snippet,
				Thumbnail:          result.Thumbnail,
				Link:               result.Link,
				Source:             result.Source,
				PublishedTimestamp: publishedAt,
			})
		}
		if reachedCutoff {
			break
		}
		offset += fetchPageSize
	}

	f.logger.Info("news fetch completed", "query", q.Query, "level", q.Level, "stories", len(stories))
	return stories, nil
}

func (f *SearchFetcher) fetchPage(ctx context.Context, q FetchQuery, offset int) ([]searchResult, error) {
	params := url.Values{}
	params.Set("engine", "bing_news")
	params.Set("qft", `sortbydate="1"`)
	params.Set("api_key", f.apiKey)
	params.Set("q", q.Query+" news")
	params.Set("count", strconv.Itoa(fetchPageSize))
	params.Set("first", strconv.Itoa(offset))
	params.Set("no_cache", "true")
	// country restriction only makes sense below country granularity
	if q.CountryCode != "" && (q.Level == domain.ScopeCity || q.Level == domain.ScopeState) {
		params.Set("cc", q.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.NewUpstreamWrap("failed to build news source request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.NewUpstreamWrap("news source request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NewUpstream(fmt.Sprintf("news source returned status %d", resp.StatusCode))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.NewUpstreamWrap("news source returned malformed response", err)
	}
	return payload.OrganicResults, nil
}

var relativeDatePattern = regexp.MustCompile(`^(\d+)([a-zA-Z]+)$`)

// ParseRelativeDate converts the source's relative publication dates
// ("40s", "30m", "2h", "3d", "1mo", "2yr") into absolute times anchored at
// now. Months and years are approximated as 30 and 365 days.
func ParseRelativeDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	m := relativeDatePattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	var age time.Duration
	switch m[2] {
	case "s":
		age = time.Duration(num) * time.Second
	case "m":
		age = time.Duration(num) * time.Minute
	case "h":
		age = time.Duration(num) * time.Hour
	case "d":
		age = time.Duration(num) * 24 * time.Hour
	case "mo":
		age = time.Duration(num) * 30 * 24 * time.Hour
	case "yr":
		age = time.Duration(num) * 365 * 24 * time.Hour
	default:
		return time.Time{}, false
	}
	return now.Add(-age).Truncate(time.Second), true
}
