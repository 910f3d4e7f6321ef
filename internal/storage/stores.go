// Package storage defines the persistence contracts the services depend
// on. Implementations map unique-constraint violations to
// apperr.ConflictError and missing rows to apperr.NotFoundError so the
// service layer never sees driver errors.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/domain"
)

type StoryStore interface {
	Create(ctx context.Context, story *domain.UserStory) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserStory, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, bucket domain.StoryBucket, limit, offset int) ([]StoryListItem, error)
}

// StoryListItem is the creator dashboard row: the story joined with its
// generated article when one exists.
type StoryListItem struct {
	ID               uuid.UUID            `json:"id"`
	Title            string               `json:"title,omitempty"`
	Context          string               `json:"context,omitempty"`
	Status           domain.StoryStatus   `json:"status"`
	PublishStatus    domain.PublishStatus `json:"publish_status"`
	InitiatedAt      time.Time            `json:"initiated_at"`
	GeneratedTitle   string               `json:"generated_title,omitempty"`
	GeneratedSnippet string               `json:"generated_snippet,omitempty"`
	GeneratedText    string               `json:"generated_story_full_text,omitempty"`
	Categories       []domain.Category    `json:"category,omitempty"`
	Tags             []string             `json:"tags,omitempty"`
	ImageKeys        []string             `json:"images_keys,omitempty"`
	GeneratedAt      *time.Time           `json:"generated_at,omitempty"`
}

type QuestionStore interface {
	ActiveByStory(ctx context.Context, storyID uuid.UUID) ([]domain.Question, error)
	// ReplaceActive deactivates all prior questions of the story and
	// inserts the new batch in one transaction.
	ReplaceActive(ctx context.Context, storyID uuid.UUID, questions []domain.Question) ([]domain.Question, error)
	// ActiveQuestionExists reports whether questionID is an active
	// question of storyID.
	ActiveQuestionExists(ctx context.Context, storyID, questionID uuid.UUID) (bool, error)
}

type AnswerStore interface {
	// Upsert inserts or overwrites the answer for (story, question) and
	// returns the answer id. At most one row per pair exists.
	Upsert(ctx context.Context, answer *domain.Answer) (uuid.UUID, error)
	// QnAByStory returns active questions joined with answers. With
	// unansweredToo set the join is outer and unanswered questions are
	// included.
	QnAByStory(ctx context.Context, storyID uuid.UUID, unansweredToo bool) ([]domain.QnAPair, error)
}

// ArticleUpdate is a partial update; nil fields are left untouched.
type ArticleUpdate struct {
	Title      *string
	Snippet    *string
	FullText   *string
	Categories []domain.Category
	Tags       []string
	ImageKeys  []string
}

func (u *ArticleUpdate) Empty() bool {
	return u.Title == nil && u.Snippet == nil && u.FullText == nil &&
		u.Categories == nil && u.Tags == nil && u.ImageKeys == nil
}

type ArticleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedArticle, error)
	GetByStory(ctx context.Context, storyID uuid.UUID) (*domain.GeneratedArticle, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CreateWithStoryFlip inserts the article and moves the parent story
	// to generated in one transaction.
	CreateWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error
	// ReplaceWithStoryFlip drops the story's previous article and inserts
	// the regenerated one in the same transaction.
	ReplaceWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error
	// AuthorUpdate applies a creator's pre-submission edit.
	AuthorUpdate(ctx context.Context, id, authorID uuid.UUID, update ArticleUpdate) (*domain.GeneratedArticle, error)
	// Submit stores the image keys and flips the parent story to
	// submitted in one transaction.
	Submit(ctx context.Context, articleID uuid.UUID, imageKeys []string) error

	// ListForReview returns articles of submitted stories whose parent
	// publish status matches, restricted to unclaimed articles or ones
	// claimed by the requesting editor.
	ListForReview(ctx context.Context, status domain.PublishStatus, editorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error)
	// EditorUpdate applies the edit and claims the article atomically:
	// the UPDATE matches only rows with editor_id null or equal to
	// editorID, and moves the parent story to work_in_progress.
	EditorUpdate(ctx context.Context, id, editorID uuid.UUID, update ArticleUpdate) (*domain.GeneratedArticle, error)
	// Publish sets the parent story publish status and stamps
	// published_at only if it was never set. Claims like EditorUpdate.
	Publish(ctx context.Context, id, editorID uuid.UUID, now time.Time) (*domain.GeneratedArticle, error)
	Reject(ctx context.Context, id, editorID uuid.UUID, reason string) (*domain.GeneratedArticle, error)

	// ListPublished returns live articles newest first. When
	// beforePublished is non-nil the feed resumes strictly after that
	// (published_at, id) keyset position.
	ListPublished(ctx context.Context, category *domain.Category, beforePublished *time.Time, beforeID uuid.UUID, limit int) ([]domain.GeneratedArticle, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.GeneratedArticle, error)
	ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error)
}

// ScopeQuery identifies one location row. Fields outside the scope level
// are ignored during matching.
type ScopeQuery struct {
	Level       domain.ScopeLevel
	City        string
	State       string
	Country     string
	CountryCode string
}

type LocationStore interface {
	// Lookup matches by the scope-appropriate key combination. A miss
	// returns (nil, nil), not an error.
	Lookup(ctx context.Context, q ScopeQuery) (*domain.Location, error)
	Create(ctx context.Context, loc *domain.Location) error
	TouchFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error
}

type RawStoryStore interface {
	// BulkInsert stores the batch in one transaction; a failing batch
	// leaves nothing behind.
	BulkInsert(ctx context.Context, stories []domain.RawStory) error
	// ListSince returns stories for the location published at or after
	// cutoff, newest first.
	ListSince(ctx context.Context, locationID uuid.UUID, cutoff time.Time) ([]domain.RawStory, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// CreateCreator inserts the user row and its author profile in one
	// transaction.
	CreateCreator(ctx context.Context, user *domain.User, bio string) error
	CreateUser(ctx context.Context, user *domain.User) error
	GetAuthorProfile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Author, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, bio *string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error)
}
