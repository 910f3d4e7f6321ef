package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type ArticleStore struct {
	db *pgxpool.Pool
}

func NewArticleStore(pool *ConnectionPool) *ArticleStore {
	return &ArticleStore{db: pool.conn}
}

const articleColumns = `
	ga.id, ga.user_story_id, ga.author_id, ga.editor_id,
	COALESCE(ga.title, ''), COALESCE(ga.title_hash, ''), ga.slug,
	COALESCE(ga.snippet, ''), COALESCE(ga.full_text, ''), COALESCE(ga.full_text_hash, ''),
	COALESCE(ga.category, '{}'), COALESCE(ga.tags, '{}'), COALESCE(ga.images_keys, '{}'),
	ga.created_at, ga.updated_at, ga.published_at`

func scanArticle(row pgx.Row) (*domain.GeneratedArticle, error) {
	var a domain.GeneratedArticle
	var categories []string
	err := row.Scan(
		&a.ID, &a.UserStoryID, &a.AuthorID, &a.EditorID,
		&a.Title, &a.TitleHash, &a.Slug,
		&a.Snippet, &a.FullText, &a.FullTextHash,
		&categories, &a.Tags, &a.ImageKeys,
		&a.CreatedAt, &a.UpdatedAt, &a.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		a.Categories = append(a.Categories, domain.Category(c))
	}
	return &a, nil
}

func categoryStrings(cs []domain.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedArticle, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM generated_user_stories ga WHERE ga.id = $1`, id)
	a, err := scanArticle(row)
	if err != nil {
		return nil, mapErr(err, "", "article not found")
	}
	return a, nil
}

func (s *ArticleStore) GetByStory(ctx context.Context, storyID uuid.UUID) (*domain.GeneratedArticle, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM generated_user_stories ga WHERE ga.user_story_id = $1`, storyID)
	a, err := scanArticle(row)
	if err != nil {
		return nil, mapErr(err, "", "article not found")
	}
	return a, nil
}

func (s *ArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM generated_user_stories WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "", "article not found")
	}
	return exists, nil
}

func (s *ArticleStore) CreateWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error {
	return s.insertWithStoryFlip(ctx, article, false)
}

func (s *ArticleStore) ReplaceWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle) error {
	return s.insertWithStoryFlip(ctx, article, true)
}

func (s *ArticleStore) insertWithStoryFlip(ctx context.Context, article *domain.GeneratedArticle, replace bool) error {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "", "story not found")
	}
	defer tx.Rollback(ctx)

	if replace {
		if _, err := tx.Exec(ctx,
			`DELETE FROM generated_user_stories WHERE user_story_id = $1`,
			article.UserStoryID,
		); err != nil {
			return mapErr(err, "", "article not found")
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO generated_user_stories
			(id, user_story_id, author_id, title, title_hash, slug, snippet,
			 full_text, full_text_hash, category, tags, images_keys)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		article.ID, article.UserStoryID, article.AuthorID,
		article.Title, nullIfEmpty(article.TitleHash), article.Slug, article.Snippet,
		article.FullText, nullIfEmpty(article.FullTextHash),
		categoryStrings(article.Categories), article.Tags, article.ImageKeys,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return mapErr(err, "an article with the same title or slug already exists", "story not found")
	}

	tag, err := tx.Exec(ctx, `
		UPDATE user_stories SET status = $1, updated_at = now()
		WHERE id = $2`, domain.StoryGenerated, article.UserStoryID)
	if err != nil {
		return mapErr(err, "", "story not found")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("story not found")
	}

	return mapErr(tx.Commit(ctx), "an article with the same title or slug already exists", "story not found")
}

// buildSet renders the non-nil fields of the update as SET clauses,
// appending their values to args.
func buildSet(update storage.ArticleUpdate, args *[]any) string {
	var clauses []string
	add := func(col string, val any) {
		*args = append(*args, val)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(*args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Snippet != nil {
		add("snippet", *update.Snippet)
	}
	if update.FullText != nil {
		add("full_text", *update.FullText)
	}
	if update.Categories != nil {
		add("category", categoryStrings(update.Categories))
	}
	if update.Tags != nil {
		add("tags", update.Tags)
	}
	if update.ImageKeys != nil {
		add("images_keys", update.ImageKeys)
	}
	clauses = append(clauses, "updated_at = now()")
	return strings.Join(clauses, ", ")
}

func (s *ArticleStore) AuthorUpdate(ctx context.Context, id, authorID uuid.UUID, update storage.ArticleUpdate) (*domain.GeneratedArticle, error) {
	args := []any{}
	set := buildSet(update, &args)
	args = append(args, id, authorID)

	query := fmt.Sprintf(`
		UPDATE generated_user_stories ga SET %s
		WHERE ga.id = $%d AND ga.author_id = $%d
		RETURNING `+articleColumns, set, len(args)-1, len(args))

	a, err := scanArticle(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err, "an article with the same title already exists", "article not found")
	}
	return a, nil
}

func (s *ArticleStore) Submit(ctx context.Context, articleID uuid.UUID, imageKeys []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "", "article not found")
	}
	defer tx.Rollback(ctx)

	var storyID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE generated_user_stories SET images_keys = $1, updated_at = now()
		WHERE id = $2
		RETURNING user_story_id`, imageKeys, articleID).Scan(&storyID)
	if err != nil {
		return mapErr(err, "", "article not found")
	}

	tag, err := tx.Exec(ctx, `
		UPDATE user_stories SET status = $1, updated_at = now()
		WHERE id = $2`, domain.StorySubmitted, storyID)
	if err != nil {
		return mapErr(err, "", "story not found")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("story not found")
	}

	return mapErr(tx.Commit(ctx), "", "article not found")
}

func (s *ArticleStore) ListForReview(ctx context.Context, status domain.PublishStatus, editorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+articleColumns+`
		FROM generated_user_stories ga
		JOIN user_stories us ON us.id = ga.user_story_id
		WHERE us.publish_status = $1 AND us.status = $2
		  AND (ga.editor_id IS NULL OR ga.editor_id = $3)
		ORDER BY us.created_at DESC
		LIMIT $4 OFFSET $5`,
		status, domain.StorySubmitted, editorID, limit, offset)
	if err != nil {
		return nil, mapErr(err, "", "articles not found")
	}
	defer rows.Close()

	return collectArticles(rows)
}

func collectArticles(rows pgx.Rows) ([]domain.GeneratedArticle, error) {
	var articles []domain.GeneratedArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, mapErr(err, "", "articles not found")
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "articles not found")
	}
	return articles, nil
}

// claimArticle applies the editorial mutation with the claim check folded
// into the UPDATE predicate: the row matches only when unclaimed or
// already claimed by this editor, so a concurrent claim by another editor
// surfaces as a detectable miss, never a silent overwrite.
func (s *ArticleStore) claimArticle(ctx context.Context, tx pgx.Tx, id, editorID uuid.UUID, set string, args []any) (*domain.GeneratedArticle, error) {
	args = append(args, editorID, id)
	query := fmt.Sprintf(`
		UPDATE generated_user_stories ga SET %s, editor_id = $%d
		WHERE ga.id = $%d AND (ga.editor_id IS NULL OR ga.editor_id = $%d)
		RETURNING `+articleColumns, set, len(args)-1, len(args), len(args)-1)

	a, err := scanArticle(tx.QueryRow(ctx, query, args...))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapErr(err, "an article with the same title already exists", "article not found")
	}

	// Distinguish a claimed article from a missing one.
	var exists bool
	if checkErr := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM generated_user_stories WHERE id = $1)`, id,
	).Scan(&exists); checkErr != nil {
		return nil, mapErr(checkErr, "", "article not found")
	}
	if exists {
		return nil, apperr.NewForbidden("article already under review by another editor")
	}
	return nil, apperr.NewNotFound("article not found")
}

func (s *ArticleStore) editorialMutation(ctx context.Context, id, editorID uuid.UUID, set string, args []any, storySet string, storyArgs func(storyID uuid.UUID) []any) (*domain.GeneratedArticle, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, mapErr(err, "", "article not found")
	}
	defer tx.Rollback(ctx)

	article, err := s.claimArticle(ctx, tx, id, editorID, set, args)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, storySet, storyArgs(article.UserStoryID)...)
	if err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NewNotFound("story not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err, "", "article not found")
	}
	return article, nil
}

func (s *ArticleStore) EditorUpdate(ctx context.Context, id, editorID uuid.UUID, update storage.ArticleUpdate) (*domain.GeneratedArticle, error) {
	args := []any{}
	set := buildSet(update, &args)

	return s.editorialMutation(ctx, id, editorID, set, args,
		`UPDATE user_stories SET publish_status = $1, updated_at = now() WHERE id = $2`,
		func(storyID uuid.UUID) []any {
			return []any{domain.PublishWorkInProgress, storyID}
		})
}

func (s *ArticleStore) Publish(ctx context.Context, id, editorID uuid.UUID, now time.Time) (*domain.GeneratedArticle, error) {
	// published_at survives republish: COALESCE keeps the first stamp.
	args := []any{now}
	set := "published_at = COALESCE(ga.published_at, $1), updated_at = now()"

	return s.editorialMutation(ctx, id, editorID, set, args,
		`UPDATE user_stories SET publish_status = $1, updated_at = now() WHERE id = $2`,
		func(storyID uuid.UUID) []any {
			return []any{domain.PublishPublished, storyID}
		})
}

func (s *ArticleStore) Reject(ctx context.Context, id, editorID uuid.UUID, reason string) (*domain.GeneratedArticle, error) {
	args := []any{}
	set := "updated_at = now()"

	return s.editorialMutation(ctx, id, editorID, set, args,
		`UPDATE user_stories SET publish_status = $1, rejection_reason = $2, updated_at = now() WHERE id = $3`,
		func(storyID uuid.UUID) []any {
			return []any{domain.PublishRejected, reason, storyID}
		})
}

func (s *ArticleStore) ListPublished(ctx context.Context, category *domain.Category, beforePublished *time.Time, beforeID uuid.UUID, limit int) ([]domain.GeneratedArticle, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM generated_user_stories ga
		JOIN user_stories us ON us.id = ga.user_story_id
		WHERE us.publish_status = 'published'`
	args := []any{}
	if category != nil {
		args = append(args, string(*category))
		query += fmt.Sprintf(` AND $%d = ANY(ga.category)`, len(args))
	}
	if beforePublished != nil {
		args = append(args, *beforePublished, beforeID)
		query += fmt.Sprintf(` AND (ga.published_at, ga.id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY ga.published_at DESC, ga.id DESC LIMIT $%d`, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "", "articles not found")
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (s *ArticleStore) GetPublishedBySlug(ctx context.Context, slug string) (*domain.GeneratedArticle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM generated_user_stories ga
		JOIN user_stories us ON us.id = ga.user_story_id
		WHERE ga.slug = $1 AND us.publish_status = 'published'`, slug)
	a, err := scanArticle(row)
	if err != nil {
		return nil, mapErr(err, "", "article not found")
	}
	return a, nil
}

func (s *ArticleStore) ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]domain.GeneratedArticle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+articleColumns+`
		FROM generated_user_stories ga
		JOIN user_stories us ON us.id = ga.user_story_id
		WHERE ga.author_id = $1 AND us.publish_status = 'published'
		ORDER BY ga.published_at DESC
		LIMIT $2 OFFSET $3`, authorID, limit, offset)
	if err != nil {
		return nil, mapErr(err, "", "articles not found")
	}
	defer rows.Close()

	return collectArticles(rows)
}
