package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScopeLevel is a geographic granularity tracked for news freshness.
// Levels form a strict containment hierarchy: city < state < country <
// international.
type ScopeLevel string

const (
	ScopeCity          ScopeLevel = "CITY"
	ScopeState         ScopeLevel = "STATE"
	ScopeCountry       ScopeLevel = "COUNTRY"
	ScopeInternational ScopeLevel = "INTERNATIONAL"
)

func ParseScopeLevel(s string) (ScopeLevel, bool) {
	switch ScopeLevel(s) {
	case ScopeCity, ScopeState, ScopeCountry, ScopeInternational:
		return ScopeLevel(s), true
	}
	return "", false
}

// ScopeConfig holds the refresh cadence and initial backfill window for
// one scope level.
type ScopeConfig struct {
	RefreshInterval time.Duration
	MaxDaysBack     int
}

// ScopeDefaults are the per-level configuration constants: tighter scopes
// refresh less often but backfill further.
var ScopeDefaults = map[ScopeLevel]ScopeConfig{
	ScopeCity:          {RefreshInterval: 60 * time.Minute, MaxDaysBack: 5},
	ScopeState:         {RefreshInterval: 40 * time.Minute, MaxDaysBack: 3},
	ScopeCountry:       {RefreshInterval: 20 * time.Minute, MaxDaysBack: 2},
	ScopeInternational: {RefreshInterval: 15 * time.Minute, MaxDaysBack: 1},
}

// Location is a tracked geographic scope. At most one row exists per
// (city, state, country, level) combination.
type Location struct {
	ID                   uuid.UUID  `json:"id"`
	City                 string     `json:"city,omitempty"`
	State                string     `json:"state,omitempty"`
	Country              string     `json:"country,omitempty"`
	CountryCode          string     `json:"country_code,omitempty"`
	Level                ScopeLevel `json:"level"`
	LastFetchedTimestamp *time.Time `json:"last_fetched_timestamp,omitempty"`
	RefreshIntervalMins  int        `json:"refresh_interval_mins"`
	MaxDaysBack          int        `json:"max_days_back"`
}

// NeedsFetch reports whether the location's cache is stale. A location
// that has never been fetched is always stale.
func (l *Location) NeedsFetch(now time.Time) bool {
	if l.LastFetchedTimestamp == nil {
		return true
	}
	interval := time.Duration(l.RefreshIntervalMins) * time.Minute
	return now.Sub(*l.LastFetchedTimestamp) > interval
}

// RawStory is an externally-sourced news item cached per location.
// Rows are insert-only; staleness is filtered at read time.
type RawStory struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Snippet            string    `json:"snippet"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	Link               string    `json:"link"`
	Source             string    `json:"source"`
	PublishedTimestamp time.Time `json:"published_timestamp"`
	LocationID         uuid.UUID `json:"-"`
}
