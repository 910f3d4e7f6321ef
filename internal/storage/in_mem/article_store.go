package in_mem

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type ArticleStore struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]domain.GeneratedArticle

	stories *StoryStore
}

func NewArticleStore(stories *StoryStore) *ArticleStore {
	s := &ArticleStore{
		articles: make(map[uuid.UUID]domain.GeneratedArticle),
		stories:  stories,
	}
	if stories != nil {
		stories.AttachArticles(s)
	}
	return s
}

func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article not found")
	}
	return &a, nil
}

func (s *ArticleStore) GetByStory(ctx context.Context, storyID uuid.UUID) (*domain.GeneratedArticle, error) {
	if a := s.byStory(storyID); a != nil {
		return a, nil
	}
	return nil, apperr.NewNotFound("article not found")
}

func (s *ArticleStore) byStory(storyID uuid.UUID) *domain.GeneratedArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.UserStoryID == storyID {
			found := a
			return &found
		}
	}
	return nil
}

func (s *ArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *ArticleStore) CreateWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error {
	return s.insertWithStoryFlip(article, false)
}

func (s *ArticleStore) ReplaceWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error {
	return s.insertWithStoryFlip(article, true)
}

func (s *ArticleStore) insertWithStoryFlip(article *domain.GeneratedArticle, replace bool) error {
	s.mu.Lock()

	if replace {
		for id, existing := range s.articles {
			if existing.UserStoryID == article.UserStoryID {
				delete(s.articles, id)
			}
		}
	}

	for _, existing := range s.articles {
		if existing.Slug == article.Slug || existing.UserStoryID == article.UserStoryID ||
			(existing.TitleHash != "" && existing.TitleHash == article.TitleHash && existing.AuthorID == article.AuthorID) {
			s.mu.Unlock()
			return apperr.NewConflict("an article with the same title or slug already exists")
		}
	}

	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	s.articles[article.ID] = *article
	s.mu.Unlock()

	s.stories.setStatus(article.UserStoryID, domain.StoryGenerated)
	return nil
}

func (s *ArticleStore) AuthorUpdate(ctx context.Context, id, authorID uuid.UUID, update storage.ArticleUpdate) (*domain.GeneratedArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok || a.AuthorID != authorID {
		return nil, apperr.NewNotFound("article not found")
	}
	applyUpdate(&a, update)
	s.articles[id] = a
	return &a, nil
}

func (s *ArticleStore) Submit(ctx context.Context, articleID uuid.UUID, imageKeys []string) error {
	s.mu.Lock()
	a, ok := s.articles[articleID]
	if !ok {
		s.mu.Unlock()
		return apperr.NewNotFound("article not found")
	}
	a.ImageKeys = imageKeys
	a.UpdatedAt = time.Now()
	s.articles[articleID] = a
	s.mu.Unlock()

	s.stories.setStatus(a.UserStoryID, domain.StorySubmitted)
	return nil
}

func (s *ArticleStore) ListForReview(ctx context.Context, status domain.PublishStatus, editorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.GeneratedArticle
	for _, a := range s.articles {
		story, err := s.stories.GetByID(ctx, a.UserStoryID)
		if err != nil {
			continue
		}
		if story.Status != domain.StorySubmitted || story.PublishStatus != status {
			continue
		}
		if !a.ClaimedBy(editorID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (s *ArticleStore) claim(id, editorID uuid.UUID) (*domain.GeneratedArticle, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article not found")
	}
	if !a.ClaimedBy(editorID) {
		return nil, apperr.NewForbidden("article already under review by another editor")
	}
	eid := editorID
	a.EditorID = &eid
	a.UpdatedAt = time.Now()
	s.articles[id] = a
	return &a, nil
}

func (s *ArticleStore) EditorUpdate(ctx context.Context, id, editorID uuid.UUID, update storage.ArticleUpdate) (*domain.GeneratedArticle, error) {
	s.mu.Lock()
	a, err := s.claim(id, editorID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	applyUpdate(a, update)
	s.articles[id] = *a
	s.mu.Unlock()

	s.stories.setPublishStatus(a.UserStoryID, domain.PublishWorkInProgress, "")
	return a, nil
}

func (s *ArticleStore) Publish(ctx context.Context, id, editorID uuid.UUID, now time.Time) (*domain.GeneratedArticle, error) {
	s.mu.Lock()
	a, err := s.claim(id, editorID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if a.PublishedAt == nil {
		a.PublishedAt = &now
	}
	s.articles[id] = *a
	s.mu.Unlock()

	s.stories.setPublishStatus(a.UserStoryID, domain.PublishPublished, "")
	return a, nil
}

func (s *ArticleStore) Reject(ctx context.Context, id, editorID uuid.UUID, reason string) (*domain.GeneratedArticle, error) {
	s.mu.Lock()
	a, err := s.claim(id, editorID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.articles[id] = *a
	s.mu.Unlock()

	s.stories.setPublishStatus(a.UserStoryID, domain.PublishRejected, reason)
	return a, nil
}

func (s *ArticleStore) ListPublished(ctx context.Context, category *domain.Category, beforePublished *time.Time, beforeID uuid.UUID, limit int) ([]domain.GeneratedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.GeneratedArticle
	for _, a := range s.articles {
		story, err := s.stories.GetByID(ctx, a.UserStoryID)
		if err != nil || story.PublishStatus != domain.PublishPublished {
			continue
		}
		if category != nil && !hasCategory(a.Categories, *category) {
			continue
		}
		if beforePublished != nil && !beforeKeyset(a, *beforePublished, beforeID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return publishedAfter(out[i], out[j]) })
	return paginate(out, limit, 0), nil
}

// beforeKeyset reports whether the article sorts strictly after the
// (published_at, id) position, i.e. belongs to the next feed page.
func beforeKeyset(a domain.GeneratedArticle, published time.Time, id uuid.UUID) bool {
	at := a.CreatedAt
	if a.PublishedAt != nil {
		at = *a.PublishedAt
	}
	if at.Equal(published) {
		return bytes.Compare(a.ID[:], id[:]) < 0
	}
	return at.Before(published)
}

func (s *ArticleStore) GetPublishedBySlug(ctx context.Context, slug string) (*domain.GeneratedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug != slug {
			continue
		}
		story, err := s.stories.GetByID(ctx, a.UserStoryID)
		if err != nil || story.PublishStatus != domain.PublishPublished {
			break
		}
		return &a, nil
	}
	return nil, apperr.NewNotFound("article not found")
}

func (s *ArticleStore) ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.GeneratedArticle
	for _, a := range s.articles {
		if a.AuthorID != authorID {
			continue
		}
		story, err := s.stories.GetByID(ctx, a.UserStoryID)
		if err != nil || story.PublishStatus != domain.PublishPublished {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return publishedAfter(out[i], out[j]) })
	return paginate(out, limit, offset), nil
}

func applyUpdate(a *domain.GeneratedArticle, update storage.ArticleUpdate) {
	if update.Title != nil {
		a.Title = *update.Title
	}
	if update.Snippet != nil {
		a.Snippet = *update.Snippet
	}
	if update.FullText != nil {
		a.FullText = *update.FullText
	}
	if update.Categories != nil {
		a.Categories = update.Categories
	}
	if update.Tags != nil {
		a.Tags = update.Tags
	}
	if update.ImageKeys != nil {
		a.ImageKeys = update.ImageKeys
	}
	a.UpdatedAt = time.Now()
}

func hasCategory(cs []domain.Category, c domain.Category) bool {
	for _, existing := range cs {
		if existing == c {
			return true
		}
	}
	return false
}

func publishedAfter(a, b domain.GeneratedArticle) bool {
	at, bt := a.CreatedAt, b.CreatedAt
	if a.PublishedAt != nil {
		at = *a.PublishedAt
	}
	if b.PublishedAt != nil {
		bt = *b.PublishedAt
	}
	if at.Equal(bt) {
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	}
	return at.After(bt)
}
