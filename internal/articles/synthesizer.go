// Package articles turns a collected story into its publishable article.
package articles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/contenthash"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/oracle"
	"github.com/vartahub/newsdesk/internal/storage"
)

type Synthesizer struct {
	stories  storage.StoryStore
	answers  storage.AnswerStore
	articles storage.ArticleStore
	oracle   oracle.Generator
	logger   *slog.Logger
}

func NewSynthesizer(
	stories storage.StoryStore,
	answers storage.AnswerStore,
	articles storage.ArticleStore,
	gen oracle.Generator,
	logger *slog.Logger,
) *Synthesizer {
	return &Synthesizer{
		stories:  stories,
		answers:  answers,
		articles: articles,
		oracle:   gen,
		logger:   logger,
	}
}

// Synthesize produces the article for a story, or returns the existing
// one. Generation is idempotent per story: once an article exists no
// further oracle calls are made unless regenerate is set, in which case
// the stored article is replaced with a fresh synthesis.
//
// In ai mode the answered Q&A transcript feeds the full synthesis. In
// manual mode the creator's text is stored verbatim and only metadata
// (title if missing, snippet, categories, tags) is generated.
func (s *Synthesizer) Synthesize(ctx context.Context, authorID, storyID uuid.UUID, regenerate bool) (*domain.GeneratedArticle, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != authorID {
		return nil, apperr.NewForbidden("story belongs to another creator")
	}
	if story.Status == domain.StorySubmitted {
		return nil, apperr.NewConflict("story is already submitted")
	}

	replace := false
	existing, err := s.articles.GetByStory(ctx, storyID)
	switch {
	case err == nil:
		if !regenerate {
			return existing, nil
		}
		replace = true
	default:
		var notFound *apperr.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var qna []domain.QnAPair
	if story.Mode == domain.ModeAI {
		qna, err = s.answers.QnAByStory(ctx, storyID, false)
		if err != nil {
			return nil, err
		}
		if len(qna) == 0 {
			return nil, apperr.NewNotFound("no answered questions found for this story")
		}
	}

	draft, err := s.oracle.SynthesizeArticle(ctx, story, qna)
	if err != nil {
		return nil, err
	}

	title := story.Title
	if title == "" {
		title = draft.Title
	}
	if title == "" {
		return nil, apperr.NewUpstream("synthesis returned no title")
	}

	fullText := draft.FullText
	if story.Mode == domain.ModeManual {
		fullText = story.FullText
	}
	if fullText == "" {
		return nil, apperr.NewUpstream("synthesis returned no article text")
	}

	categories := domain.NormalizeCategories(draft.Category, 3)
	if len(categories) == 0 {
		categories = []domain.Category{domain.CategoryLocalNews}
	}
	tags := draft.Tags
	if len(tags) > 10 {
		tags = tags[:10]
	}

	slug, err := uniqueSlug(ctx, s.articles, title)
	if err != nil {
		return nil, err
	}

	article := &domain.GeneratedArticle{
		ID:           uuid.New(),
		UserStoryID:  storyID,
		AuthorID:     authorID,
		Title:        title,
		TitleHash:    contenthash.Sum(title),
		Slug:         slug,
		Snippet:      draft.Snippet,
		FullText:     fullText,
		FullTextHash: contenthash.Sum(fullText),
		Categories:   categories,
		Tags:         tags,
	}

	if replace {
		err = s.articles.ReplaceWithStoryFlip(ctx, article)
	} else {
		err = s.articles.CreateWithStoryFlip(ctx, article)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("article synthesized", "story_id", storyID, "article_id", article.ID, "slug", slug, "regenerated", replace)
	return article, nil
}
