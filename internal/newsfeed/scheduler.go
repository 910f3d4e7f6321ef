// Package newsfeed keeps per-location news caches fresh and serves them
// to clients. Each location row carries its own refresh cadence; a
// request first refreshes a stale cache, then serves from storage.
package newsfeed

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

var validate = validator.New()

// LocationRequest identifies the geographic scope a client wants news
// for. City, State and Country requirements depend on the scope level.
type LocationRequest struct {
	Scope       string `json:"scope" validate:"required"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Query       string `json:"query"`
}

func (r *LocationRequest) Validate() (domain.ScopeLevel, error) {
	if err := validate.Struct(r); err != nil {
		return "", apperr.NewValidationWrap("invalid location request", err)
	}
	level, ok := domain.ParseScopeLevel(r.Scope)
	if !ok {
		return "", apperr.NewValidation("scope must be one of CITY, STATE, COUNTRY, INTERNATIONAL")
	}
	switch level {
	case domain.ScopeCity:
		if r.City == "" || r.State == "" || r.Country == "" {
			return "", apperr.NewValidation("city, state and country are required at CITY scope")
		}
	case domain.ScopeState:
		if r.State == "" || r.Country == "" {
			return "", apperr.NewValidation("state and country are required at STATE scope")
		}
	case domain.ScopeCountry:
		if r.Country == "" {
			return "", apperr.NewValidation("country is required at COUNTRY scope")
		}
	}
	return level, nil
}

// searchTerm is the query sent to the news source for this scope.
func (r *LocationRequest) searchTerm(level domain.ScopeLevel) string {
	if r.Query != "" {
		return r.Query
	}
	switch level {
	case domain.ScopeCity:
		return r.City
	case domain.ScopeState:
		return r.State
	case domain.ScopeCountry:
		return r.Country
	default:
		return "world"
	}
}

type Scheduler struct {
	locations storage.LocationStore
	raw       storage.RawStoryStore
	fetcher   Fetcher
	logger    *slog.Logger
	now       func() time.Time
}

func NewScheduler(locations storage.LocationStore, raw storage.RawStoryStore, fetcher Fetcher, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		locations: locations,
		raw:       raw,
		fetcher:   fetcher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetNews serves the cached stories for the requested scope, refreshing
// the cache first when it is stale. An unknown location is registered
// with the per-level defaults and backfilled.
//
// A failing refresh does not fail the request: stale cached stories are
// served and the freshness timestamp stays untouched so the next request
// retries.
func (s *Scheduler) GetNews(ctx context.Context, req *LocationRequest) ([]domain.RawStory, error) {
	level, err := req.Validate()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	loc, err := s.locations.Lookup(ctx, storage.ScopeQuery{
		Level:       level,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		return nil, err
	}

	if loc == nil {
		loc, err = s.registerLocation(ctx, req, level)
		if err != nil {
			return nil, err
		}
	}

	if loc.NeedsFetch(now) {
		if err := s.refresh(ctx, req, loc, now); err != nil {
			s.logger.Warn("news refresh failed, serving cached stories", "location_id", loc.ID, "error", err)
		}
	}

	cutoff := now.AddDate(0, 0, -(loc.MaxDaysBack + 1))
	return s.raw.ListSince(ctx, loc.ID, cutoff)
}

func (s *Scheduler) registerLocation(ctx context.Context, req *LocationRequest, level domain.ScopeLevel) (*domain.Location, error) {
	defaults := domain.ScopeDefaults[level]
	loc := &domain.Location{
		ID:                  uuid.New(),
		City:                req.City,
		State:               req.State,
		Country:             req.Country,
		CountryCode:         req.CountryCode,
		Level:               level,
		RefreshIntervalMins: int(defaults.RefreshInterval / time.Minute),
		MaxDaysBack:         defaults.MaxDaysBack,
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	s.logger.Info("location registered", "location_id", loc.ID, "level", level)
	return loc, nil
}

// refresh pulls fresh stories and advances the freshness timestamp. The
// timestamp moves only after a successful fetch and store.
func (s *Scheduler) refresh(ctx context.Context, req *LocationRequest, loc *domain.Location, now time.Time) error {
	cutoff := now.AddDate(0, 0, -loc.MaxDaysBack)
	if loc.LastFetchedTimestamp != nil && loc.LastFetchedTimestamp.After(cutoff) {
		cutoff = *loc.LastFetchedTimestamp
	}

	stories, err := s.fetcher.Fetch(ctx, FetchQuery{
		Query:       req.searchTerm(loc.Level),
		CountryCode: req.CountryCode,
		Level:       loc.Level,
		Cutoff:      cutoff,
	})
	if err != nil {
		return err
	}

	if len(stories) > 0 {
		for i := range stories {
			stories[i].LocationID = loc.ID
		}
		if err := s.raw.BulkInsert(ctx, stories); err != nil {
			return err
		}
	}

	if err := s.locations.TouchFetched(ctx, loc.ID, now); err != nil {
		return err
	}
	loc.LastFetchedTimestamp = &now
	return nil
}
