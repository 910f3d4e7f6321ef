package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
		ok   bool
	}{
		{"local-news", CategoryLocalNews, true},
		{"Local News", CategoryLocalNews, true},
		{"LOCAL_NEWS", CategoryLocalNews, true},
		{"  Civic Issues  ", CategoryCivicIssues, true},
		{"astrology", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCategory(tt.raw)
		require.Equal(t, tt.ok, ok, tt.raw)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{"Sports", "astrology", "CRIME", "business", "culture"}, 3)
	assert.Equal(t, []Category{CategorySports, CategoryCrime, CategoryBusiness}, got)

	assert.Empty(t, NormalizeCategories([]string{"astrology"}, 3))
}

func TestWordLengthRange(t *testing.T) {
	tests := []struct {
		option string
		lo, hi int
	}{
		{"short", 300, 500},
		{"medium", 500, 800},
		{"long", 800, 1200},
		{"novel", 300, 500},
		{"", 300, 500},
	}
	for _, tt := range tests {
		lo, hi := WordLengthRange(tt.option)
		assert.Equal(t, tt.lo, lo, tt.option)
		assert.Equal(t, tt.hi, hi, tt.option)
	}
}

func TestFormatWordRange(t *testing.T) {
	assert.Equal(t, "(300-500)", FormatWordRange(300, 500))
}

func TestParseStoryBucket(t *testing.T) {
	for _, valid := range []string{"draft", "submitted", "rejected", "published"} {
		_, ok := ParseStoryBucket(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseStoryBucket("archived")
	assert.False(t, ok)
}

func TestParseScopeLevel(t *testing.T) {
	level, ok := ParseScopeLevel("CITY")
	require.True(t, ok)
	assert.Equal(t, ScopeCity, level)

	_, ok = ParseScopeLevel("city")
	assert.False(t, ok)
}

func TestLocationNeedsFetch(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	loc := Location{RefreshIntervalMins: 60}

	assert.True(t, loc.NeedsFetch(now), "never fetched means stale")

	fresh := now.Add(-59 * time.Minute)
	loc.LastFetchedTimestamp = &fresh
	assert.False(t, loc.NeedsFetch(now))

	stale := now.Add(-61 * time.Minute)
	loc.LastFetchedTimestamp = &stale
	assert.True(t, loc.NeedsFetch(now))
}

func TestClaimedBy(t *testing.T) {
	a := GeneratedArticle{}
	anyone := uuid.New()
	assert.True(t, a.ClaimedBy(anyone))

	owner := uuid.New()
	a.EditorID = &owner
	assert.True(t, a.ClaimedBy(owner))
	assert.False(t, a.ClaimedBy(anyone))
}
