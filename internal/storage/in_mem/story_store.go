// Package in_mem holds in-memory implementations of the storage
// contracts. They mirror the Postgres semantics closely enough for
// service tests: hash uniqueness, claim rules and transactional
// visibility of the multi-row operations.
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

type StoryStore struct {
	mu      sync.RWMutex
	stories map[uuid.UUID]domain.UserStory

	articles *ArticleStore
}

func NewStoryStore() *StoryStore {
	return &StoryStore{stories: make(map[uuid.UUID]domain.UserStory)}
}

func (s *StoryStore) Create(ctx context.Context, story *domain.UserStory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.stories {
		if story.ContextHash != "" && existing.ContextHash == story.ContextHash {
			return apperr.NewConflict("a story with the same context or title already exists")
		}
		if story.TitleHash != "" && existing.AuthorID == story.AuthorID && existing.TitleHash == story.TitleHash {
			return apperr.NewConflict("a story with the same context or title already exists")
		}
	}

	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now
	story.Status = domain.StoryCollecting
	story.PublishStatus = domain.PublishPending

	s.stories[story.ID] = *story
	return nil
}

func (s *StoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserStory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, apperr.NewNotFound("story not found")
	}
	return &story, nil
}

func (s *StoryStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, bucket domain.StoryBucket, limit, offset int) ([]storage.StoryListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []storage.StoryListItem
	for _, story := range s.stories {
		if story.AuthorID != authorID || !inBucket(story, bucket) {
			continue
		}
		item := storage.StoryListItem{
			ID:            story.ID,
			Title:         story.Title,
			Context:       story.Context,
			Status:        story.Status,
			PublishStatus: story.PublishStatus,
			InitiatedAt:   story.CreatedAt,
		}
		if s.articles != nil {
			if a := s.articles.byStory(story.ID); a != nil {
				item.GeneratedTitle = a.Title
				item.GeneratedSnippet = a.Snippet
				item.GeneratedText = a.FullText
				item.Categories = a.Categories
				item.Tags = a.Tags
				item.ImageKeys = a.ImageKeys
				created := a.CreatedAt
				item.GeneratedAt = &created
			}
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].InitiatedAt.After(items[j].InitiatedAt) })
	return paginate(items, limit, offset), nil
}

// AttachArticles joins article rows into the dashboard listing, like the
// LEFT JOIN the SQL store performs.
func (s *StoryStore) AttachArticles(articles *ArticleStore) {
	s.articles = articles
}

func (s *StoryStore) setStatus(id uuid.UUID, status domain.StoryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if story, ok := s.stories[id]; ok {
		story.Status = status
		story.UpdatedAt = time.Now()
		s.stories[id] = story
	}
}

func (s *StoryStore) setPublishStatus(id uuid.UUID, status domain.PublishStatus, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if story, ok := s.stories[id]; ok {
		story.PublishStatus = status
		if reason != "" {
			story.RejectionReason = reason
		}
		story.UpdatedAt = time.Now()
		s.stories[id] = story
	}
}

func inBucket(story domain.UserStory, bucket domain.StoryBucket) bool {
	switch bucket {
	case domain.BucketDraft:
		return story.Status == domain.StoryCollecting || story.Status == domain.StoryGenerated
	case domain.BucketSubmitted:
		return story.Status == domain.StorySubmitted && story.PublishStatus == domain.PublishPending
	case domain.BucketRejected:
		return story.PublishStatus == domain.PublishRejected
	case domain.BucketPublished:
		return story.PublishStatus == domain.PublishPublished
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
