package in_mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type LocationStore struct {
	mu        sync.RWMutex
	locations map[uuid.UUID]domain.Location
}

func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[uuid.UUID]domain.Location)}
}

func (s *LocationStore) Lookup(ctx context.Context, q storage.ScopeQuery) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, loc := range s.locations {
		if loc.Level != q.Level {
			continue
		}
		match := false
		switch q.Level {
		case domain.ScopeCity:
			match = loc.City == q.City && loc.State == q.State && loc.Country == q.Country
		case domain.ScopeState:
			match = loc.State == q.State && loc.Country == q.Country
		case domain.ScopeCountry:
			match = loc.Country == q.Country
		case domain.ScopeInternational:
			match = true
		}
		if match {
			found := loc
			return &found, nil
		}
	}
	return nil, nil
}

func (s *LocationStore) Create(ctx context.Context, loc *domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.locations {
		if existing.City == loc.City && existing.State == loc.State &&
			existing.Country == loc.Country && existing.Level == loc.Level {
			return apperr.NewConflict("location already tracked")
		}
	}
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	s.locations[loc.ID] = *loc
	return nil
}

func (s *LocationStore) TouchFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok {
		return apperr.NewNotFound("location not found")
	}
	loc.LastFetchedTimestamp = &fetchedAt
	s.locations[id] = loc
	return nil
}

type RawStoryStore struct {
	mu      sync.RWMutex
	stories []domain.RawStory
}

func NewRawStoryStore() *RawStoryStore {
	return &RawStoryStore{}
}

func (s *RawStoryStore) BulkInsert(ctx context.Context, stories []domain.RawStory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stories {
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		s.stories = append(s.stories, st)
	}
	return nil
}

func (s *RawStoryStore) ListSince(ctx context.Context, locationID uuid.UUID, cutoff time.Time) ([]domain.RawStory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RawStory
	for _, st := range s.stories {
		if st.LocationID == locationID && !st.PublishedTimestamp.Before(cutoff) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedTimestamp.After(out[j].PublishedTimestamp) })
	return out, nil
}
