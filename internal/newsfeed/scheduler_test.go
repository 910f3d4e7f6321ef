package newsfeed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
	"github.com/vartahub/newsdesk/internal/storage/in_mem"
)

type stubFetcher struct {
	calls   int
	queries []FetchQuery
	stories []domain.RawStory
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context, q FetchQuery) ([]domain.RawStory, error) {
	s.calls++
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.RawStory, len(s.stories))
	copy(out, s.stories)
	return out, nil
}

type schedulerFixture struct {
	locations *in_mem.LocationStore
	raw       *in_mem.RawStoryStore
	fetcher   *stubFetcher
	sched     *Scheduler
	now       time.Time
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		locations: in_mem.NewLocationStore(),
		raw:       in_mem.NewRawStoryStore(),
		fetcher:   &stubFetcher{},
		now:       time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}
	f.sched = NewScheduler(f.locations, f.raw, f.fetcher, slog.Default())
	f.sched.now = func() time.Time { return f.now }
	return f
}

func cityRequest() *LocationRequest {
	return &LocationRequest{Scope: "CITY", City: "Nagpur", State: "Maharashtra", Country: "India", CountryCode: "IN"}
}

func (f *schedulerFixture) cityLocation(t *testing.T) *domain.Location {
	t.Helper()
	loc, err := f.locations.Lookup(context.Background(), storage.ScopeQuery{
		Level: domain.ScopeCity, City: "Nagpur", State: "Maharashtra", Country: "India",
	})
	require.NoError(t, err)
	require.NotNil(t, loc)
	return loc
}

func TestGetNews_RegistersUnknownLocation(t *testing.T) {
	f := newSchedulerFixture(t)
	f.fetcher.stories = []domain.RawStory{{
		Title:              "Bridge repairs begin",
		Link:               "https://news.example/bridge",
		PublishedTimestamp: f.now.Add(-2 * time.Hour),
	}}

	stories, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "Bridge repairs begin", stories[0].Title)

	loc := f.cityLocation(t)
	assert.Equal(t, 60, loc.RefreshIntervalMins)
	assert.Equal(t, 5, loc.MaxDaysBack)
	require.NotNil(t, loc.LastFetchedTimestamp)
	assert.True(t, loc.LastFetchedTimestamp.Equal(f.now))
	assert.Equal(t, loc.ID, stories[0].LocationID)
}

func TestGetNews_FreshCacheSkipsFetch(t *testing.T) {
	f := newSchedulerFixture(t)
	_, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	require.Equal(t, 1, f.fetcher.calls)

	f.now = f.now.Add(59 * time.Minute)
	_, err = f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, f.fetcher.calls, "a cache younger than the refresh interval is served as is")

	f.now = f.now.Add(2 * time.Minute)
	_, err = f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, f.fetcher.calls)
}

func TestGetNews_FailedRefreshServesStale(t *testing.T) {
	f := newSchedulerFixture(t)
	f.fetcher.stories = []domain.RawStory{{
		Title:              "cached story",
		Link:               "https://news.example/cached",
		PublishedTimestamp: f.now.Add(-time.Hour),
	}}
	_, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	f.fetcher.err = apperr.NewUpstream("news source returned status 503")

	stories, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "cached story", stories[0].Title)

	loc := f.cityLocation(t)
	require.NotNil(t, loc.LastFetchedTimestamp)
	assert.False(t, loc.LastFetchedTimestamp.Equal(f.now), "a failed refresh must not advance freshness")
}

func TestGetNews_IncrementalCutoff(t *testing.T) {
	f := newSchedulerFixture(t)
	_, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)

	require.Len(t, f.fetcher.queries, 1)
	assert.True(t, f.fetcher.queries[0].Cutoff.Equal(f.now.AddDate(0, 0, -5)), "first fetch backfills the full window")

	firstFetch := f.now
	f.now = f.now.Add(3 * time.Hour)
	_, err = f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)

	require.Len(t, f.fetcher.queries, 2)
	assert.True(t, f.fetcher.queries[1].Cutoff.Equal(firstFetch), "later fetches only cover the gap since the last one")
}

func TestGetNews_ServeWindow(t *testing.T) {
	f := newSchedulerFixture(t)
	f.fetcher.stories = []domain.RawStory{
		{Title: "recent", Link: "https://news.example/recent", PublishedTimestamp: f.now.Add(-time.Hour)},
	}
	_, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)

	loc := f.cityLocation(t)
	old := domain.RawStory{
		ID:                 uuid.New(),
		LocationID:         loc.ID,
		Title:              "ancient",
		Link:               "https://news.example/ancient",
		PublishedTimestamp: f.now.AddDate(0, 0, -7),
	}
	require.NoError(t, f.raw.BulkInsert(context.Background(), []domain.RawStory{old}))

	stories, err := f.sched.GetNews(context.Background(), cityRequest())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "recent", stories[0].Title)
}

func TestLocationRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  LocationRequest
		ok   bool
	}{
		{"city needs state and country", LocationRequest{Scope: "CITY", City: "Nagpur"}, false},
		{"state needs country", LocationRequest{Scope: "STATE", State: "Maharashtra"}, false},
		{"country alone", LocationRequest{Scope: "COUNTRY", Country: "India"}, true},
		{"international needs nothing", LocationRequest{Scope: "INTERNATIONAL"}, true},
		{"unknown scope", LocationRequest{Scope: "GALAXY"}, false},
		{"missing scope", LocationRequest{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
			}
		})
	}
}
