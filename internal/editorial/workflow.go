// Package editorial drives the review desk: claiming, editing,
// publishing and rejecting submitted articles.
package editorial

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

const (
	minRejectReason = 20
	maxRejectReason = 1200
)

type Workflow struct {
	articles storage.ArticleStore
	logger   *slog.Logger
}

func NewWorkflow(articles storage.ArticleStore, logger *slog.Logger) *Workflow {
	return &Workflow{articles: articles, logger: logger}
}

// ListByStatus returns the editor's queue for one publish status. Articles
// claimed by other editors are filtered out so two editors never work the
// same piece.
func (w *Workflow) ListByStatus(ctx context.Context, editorID uuid.UUID, status domain.PublishStatus, limit, offset int) ([]domain.GeneratedArticle, error) {
	switch status {
	case domain.PublishPending, domain.PublishWorkInProgress, domain.PublishPublished, domain.PublishRejected:
	default:
		return nil, apperr.NewValidation("unknown review status")
	}
	return w.articles.ListForReview(ctx, status, editorID, limit, offset)
}

// EditRequest is an editor's revision. Absent fields are left untouched.
type EditRequest struct {
	Title      *string  `json:"title"`
	Snippet    *string  `json:"snippet"`
	FullText   *string  `json:"full_text"`
	Categories []string `json:"category"`
	Tags       []string `json:"tags"`
}

// Edit applies an editor revision. The first edit claims the article for
// this editor and moves the parent story to work_in_progress. A rejected
// story re-enters the desk the same way: editing it moves it back to
// work_in_progress for a fresh decision.
func (w *Workflow) Edit(ctx context.Context, editorID, articleID uuid.UUID, req *EditRequest) (*domain.GeneratedArticle, error) {
	update := storage.ArticleUpdate{
		Title:    req.Title,
		Snippet:  req.Snippet,
		FullText: req.FullText,
		Tags:     req.Tags,
	}
	if req.Categories != nil {
		cats := domain.NormalizeCategories(req.Categories, 3)
		if len(cats) == 0 {
			return nil, apperr.NewValidation("no valid categories supplied")
		}
		update.Categories = cats
	}
	if update.Empty() {
		return nil, apperr.NewValidation("no fields to update")
	}

	article, err := w.articles.EditorUpdate(ctx, articleID, editorID, update)
	if err != nil {
		return nil, err
	}
	w.logger.Info("article edited", "article_id", articleID, "editor_id", editorID)
	return article, nil
}

// Publish makes the article live. published_at is stamped on first
// publication only; re-publishing after a rejection keeps the original
// timestamp.
func (w *Workflow) Publish(ctx context.Context, editorID, articleID uuid.UUID) (*domain.GeneratedArticle, error) {
	article, err := w.articles.Publish(ctx, articleID, editorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	w.logger.Info("article published", "article_id", articleID, "slug", article.Slug, "editor_id", editorID)
	return article, nil
}

// Reject sends the article back to its creator with a mandatory reason.
func (w *Workflow) Reject(ctx context.Context, editorID, articleID uuid.UUID, reason string) (*domain.GeneratedArticle, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minRejectReason || len(reason) > maxRejectReason {
		return nil, apperr.NewValidation("rejection reason must be between 20 and 1200 characters")
	}

	article, err := w.articles.Reject(ctx, articleID, editorID, reason)
	if err != nil {
		return nil, err
	}
	w.logger.Info("article rejected", "article_id", articleID, "editor_id", editorID)
	return article, nil
}
