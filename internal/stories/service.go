// Package stories implements the creator side of the pipeline: story
// initiation, answer collection and pre-submission article edits.
package stories

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/contenthash"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type Service struct {
	stories   storage.StoryStore
	questions storage.QuestionStore
	answers   storage.AnswerStore
	articles  storage.ArticleStore
	logger    *slog.Logger
}

func NewService(
	stories storage.StoryStore,
	questions storage.QuestionStore,
	answers storage.AnswerStore,
	articles storage.ArticleStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		stories:   stories,
		questions: questions,
		answers:   answers,
		articles:  articles,
		logger:    logger,
	}
}

// Initiate creates a story draft in collecting state. Hashes of title and
// context are computed here so duplicate submissions by the same author
// surface as conflicts at insert time.
func (s *Service) Initiate(ctx context.Context, authorID uuid.UUID, req *InitiateRequest) (*domain.UserStory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	wordLength := req.WordLength
	if wordLength == "" {
		wordLength = "short"
	}
	lo, hi := domain.WordLengthRange(wordLength)

	story := &domain.UserStory{
		ID:              uuid.New(),
		AuthorID:        authorID,
		Title:           req.Title,
		Context:         req.Context,
		Mode:            domain.StoryMode(req.Mode),
		FullText:        req.FullText,
		Tone:            req.Tone,
		Style:           req.Style,
		Language:        req.Language,
		WordLength:      wordLength,
		WordLengthRange: domain.FormatWordRange(lo, hi),
		Status:          domain.StoryCollecting,
		PublishStatus:   domain.PublishPending,
	}
	if story.Title != "" {
		story.TitleHash = contenthash.Sum(story.Title)
	}
	if story.Context != "" {
		story.ContextHash = contenthash.Sum(story.Context)
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	s.logger.Info("story initiated", "story_id", story.ID, "mode", story.Mode)
	return story, nil
}

// SubmitAnswer records the creator's answer to one active question.
// Re-answering overwrites the previous answer. Answers against inactive
// questions are rejected so a stale client cannot attach input to a
// superseded batch.
func (s *Service) SubmitAnswer(ctx context.Context, authorID, storyID uuid.UUID, req *AnswerRequest) (uuid.UUID, error) {
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid question id", err)
	}

	story, err := s.ownedStory(ctx, authorID, storyID)
	if err != nil {
		return uuid.Nil, err
	}
	if story.Status == domain.StorySubmitted {
		return uuid.Nil, apperr.NewConflict("story is already submitted")
	}

	active, err := s.questions.ActiveQuestionExists(ctx, storyID, questionID)
	if err != nil {
		return uuid.Nil, err
	}
	if !active {
		return uuid.Nil, apperr.NewNotFound("question is not an active question of this story")
	}

	answerID, err := s.answers.Upsert(ctx, &domain.Answer{
		UserStoryID: storyID,
		QuestionID:  questionID,
		AnswerText:  req.AnswerText,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return answerID, nil
}

// CompleteStory is the full creator view of one story: the draft, its
// active questions with any answers, and the generated article when one
// exists.
type CompleteStory struct {
	Story   *domain.UserStory        `json:"story"`
	QnA     []domain.QnAPair         `json:"qna"`
	Article *domain.GeneratedArticle `json:"article,omitempty"`
}

func (s *Service) GetComplete(ctx context.Context, authorID, storyID uuid.UUID) (*CompleteStory, error) {
	story, err := s.ownedStory(ctx, authorID, storyID)
	if err != nil {
		return nil, err
	}

	qna, err := s.answers.QnAByStory(ctx, storyID, true)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.GetByStory(ctx, storyID)
	if err != nil {
		var notFound *apperr.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		article = nil
	}

	return &CompleteStory{Story: story, QnA: qna, Article: article}, nil
}

func (s *Service) ListByBucket(ctx context.Context, authorID uuid.UUID, bucket domain.StoryBucket, limit, offset int) ([]storage.StoryListItem, error) {
	return s.stories.ListByAuthor(ctx, authorID, bucket, limit, offset)
}

// UpdateArticle applies a creator edit to their own generated article.
// Edits are allowed only before submission; afterwards the article belongs
// to the editorial desk.
func (s *Service) UpdateArticle(ctx context.Context, authorID, articleID uuid.UUID, req *ArticleEditRequest) (*domain.GeneratedArticle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, apperr.NewForbidden("article belongs to another creator")
	}
	story, err := s.stories.GetByID(ctx, article.UserStoryID)
	if err != nil {
		return nil, err
	}
	if story.Status == domain.StorySubmitted {
		return nil, apperr.NewConflict("submitted articles can no longer be edited by the creator")
	}

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

	return s.articles.AuthorUpdate(ctx, articleID, authorID, update)
}

// Submit hands the story to the editorial desk. The story must already
// have a generated article, and image keys are capped at three.
func (s *Service) Submit(ctx context.Context, authorID, storyID uuid.UUID, req *SubmitRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	story, err := s.ownedStory(ctx, authorID, storyID)
	if err != nil {
		return err
	}
	if story.Status == domain.StorySubmitted {
		return apperr.NewConflict("story is already submitted")
	}
	if story.Status != domain.StoryGenerated {
		return apperr.NewConflict("story has no generated article yet")
	}

	article, err := s.articles.GetByStory(ctx, storyID)
	if err != nil {
		return err
	}

	if err := s.articles.Submit(ctx, article.ID, req.ImageKeys); err != nil {
		return err
	}
	s.logger.Info("story submitted for review", "story_id", storyID, "article_id", article.ID)
	return nil
}

func (s *Service) ownedStory(ctx context.Context, authorID, storyID uuid.UUID) (*domain.UserStory, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != authorID {
		return nil, apperr.NewForbidden("story belongs to another creator")
	}
	return story, nil
}
