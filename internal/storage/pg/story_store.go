package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type StoryStore struct {
	db *pgxpool.Pool
}

func NewStoryStore(pool *ConnectionPool) *StoryStore {
	return &StoryStore{db: pool.conn}
}

func (s *StoryStore) Create(ctx context.Context, story *domain.UserStory) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}

	cmd := `
		INSERT INTO user_stories
			(id, author_id, title, title_hash, context, context_hash, mode, full_text,
			 tone, style, language, word_length, word_length_range, status, publish_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at;
	`
	err := s.db.QueryRow(ctx, cmd,
		story.ID,
		story.AuthorID,
		nullIfEmpty(story.Title),
		nullIfEmpty(story.TitleHash),
		story.Context,
		nullIfEmpty(story.ContextHash),
		story.Mode,
		nullIfEmpty(story.FullText),
		story.Tone,
		story.Style,
		story.Language,
		story.WordLength,
		story.WordLengthRange,
		domain.StoryCollecting,
		domain.PublishPending,
	).Scan(&story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		return mapErr(err, "a story with the same context or title already exists", "story not found")
	}

	story.Status = domain.StoryCollecting
	story.PublishStatus = domain.PublishPending
	return nil
}

const storyColumns = `
	id, author_id, COALESCE(title, ''), COALESCE(title_hash, ''), context,
	COALESCE(context_hash, ''), mode, COALESCE(full_text, ''), tone, style,
	language, word_length, word_length_range, status, publish_status,
	COALESCE(rejection_reason, ''), created_at, updated_at`

func scanStory(row interface{ Scan(...any) error }) (*domain.UserStory, error) {
	var st domain.UserStory
	err := row.Scan(
		&st.ID, &st.AuthorID, &st.Title, &st.TitleHash, &st.Context,
		&st.ContextHash, &st.Mode, &st.FullText, &st.Tone, &st.Style,
		&st.Language, &st.WordLength, &st.WordLengthRange, &st.Status,
		&st.PublishStatus, &st.RejectionReason, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserStory, error) {
	row := s.db.QueryRow(ctx, `SELECT `+storyColumns+` FROM user_stories WHERE id = $1`, id)
	story, err := scanStory(row)
	if err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	return story, nil
}

func (s *StoryStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, bucket domain.StoryBucket, limit, offset int) ([]storage.StoryListItem, error) {
	query := `
		SELECT
			us.id, COALESCE(us.title, ''), us.context, us.status, us.publish_status, us.created_at,
			COALESCE(ga.title, ''), COALESCE(ga.snippet, ''), COALESCE(ga.full_text, ''),
			COALESCE(ga.category, '{}'), COALESCE(ga.tags, '{}'), COALESCE(ga.images_keys, '{}'),
			ga.created_at
		FROM user_stories us
		LEFT JOIN generated_user_stories ga ON ga.user_story_id = us.id
		WHERE us.author_id = $1`

	switch bucket {
	case domain.BucketDraft:
		query += ` AND us.status IN ('collecting', 'generated')`
	case domain.BucketSubmitted:
		query += ` AND us.status = 'submitted' AND us.publish_status = 'pending'`
	case domain.BucketRejected:
		query += ` AND us.publish_status = 'rejected'`
	case domain.BucketPublished:
		query += ` AND us.publish_status = 'published'`
	}
	query += ` ORDER BY us.created_at DESC LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, authorID, limit, offset)
	if err != nil {
		return nil, mapErr(err, "", "stories not found")
	}
	defer rows.Close()

	var items []storage.StoryListItem
	for rows.Next() {
		var it storage.StoryListItem
		var generatedAt *time.Time
		var categories []string
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Context, &it.Status, &it.PublishStatus, &it.InitiatedAt,
			&it.GeneratedTitle, &it.GeneratedSnippet, &it.GeneratedText,
			&categories, &it.Tags, &it.ImageKeys, &generatedAt,
		); err != nil {
			return nil, mapErr(err, "", "stories not found")
		}
		for _, c := range categories {
			it.Categories = append(it.Categories, domain.Category(c))
		}
		it.GeneratedAt = generatedAt
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "stories not found")
	}
	return items, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
