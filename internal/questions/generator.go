// Package questions produces and caches the clarifying questions a
// creator answers before article synthesis.
package questions

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/oracle"
	"github.com/vartahub/newsdesk/internal/storage"
)

type Generator struct {
	stories   storage.StoryStore
	questions storage.QuestionStore
	oracle    oracle.Generator
	logger    *slog.Logger
}

func NewGenerator(stories storage.StoryStore, questions storage.QuestionStore, gen oracle.Generator, logger *slog.Logger) *Generator {
	return &Generator{
		stories:   stories,
		questions: questions,
		oracle:    gen,
		logger:    logger,
	}
}

// Get returns the active questions of the story, generating them on first
// call. With regenerate set, the current batch is replaced: old questions
// are deactivated and the new batch inserted in one transaction, so a
// failing generation leaves the previous batch untouched.
func (g *Generator) Get(ctx context.Context, authorID, storyID uuid.UUID, regenerate bool) ([]domain.Question, error) {
	story, err := g.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != authorID {
		return nil, apperr.NewForbidden("story belongs to another creator")
	}
	if story.Mode != domain.ModeAI {
		return nil, apperr.NewValidation("questions are only generated for ai mode stories")
	}
	if story.Status == domain.StorySubmitted {
		return nil, apperr.NewConflict("story is already submitted")
	}

	if !regenerate {
		cached, err := g.questions.ActiveByStory(ctx, storyID)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	drafts, err := g.oracle.GenerateQuestions(ctx, story)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.Question, 0, len(drafts))
	for _, d := range drafts {
		batch = append(batch, domain.Question{
			ID:           uuid.New(),
			UserStoryID:  storyID,
			QuestionKey:  d.QuestionKey,
			QuestionType: domain.QuestionType(d.QuestionType),
			QuestionText: d.QuestionText,
			IsActive:     true,
		})
	}

	saved, err := g.questions.ReplaceActive(ctx, storyID, batch)
	if err != nil {
		return nil, err
	}
	g.logger.Info("questions generated", "story_id", storyID, "count", len(saved), "regenerate", regenerate)
	return saved, nil
}
