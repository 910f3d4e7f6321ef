// Package oracle wraps the external text-generation service behind a
// request/response contract. Failures surface as apperr.UpstreamError and
// never produce placeholder content.
package oracle

import (
	"context"

	"github.com/vartahub/newsdesk/internal/domain"
)

// QuestionDraft is one clarifying question as returned by the model,
// before it is persisted.
type QuestionDraft struct {
	QuestionKey  string `json:"question_key"`
	QuestionType string `json:"question_type"`
	QuestionText string `json:"question_text"`
}

// ArticleDraft is the structured synthesis result. Title is empty when
// the creator supplied their own.
type ArticleDraft struct {
	Title    string   `json:"title"`
	Snippet  string   `json:"snippet"`
	FullText string   `json:"full_text"`
	Category []string `json:"category"`
	Tags     []string `json:"tags"`
}

type Generator interface {
	// GenerateQuestions returns 1-6 clarifying questions for the story
	// context.
	GenerateQuestions(ctx context.Context, story *domain.UserStory) ([]QuestionDraft, error)
	// SynthesizeArticle produces the final article from the story and
	// its Q&A transcript. In manual mode only metadata is generated; the
	// stored full text is never rewritten.
	SynthesizeArticle(ctx context.Context, story *domain.UserStory, qna []domain.QnAPair) (*ArticleDraft, error)
}
