package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType classifies a clarifying question along the 5W1H axis. The
// classification is informational only; it is never enforced against the
// question text.
type QuestionType string

const (
	QuestionWhat  QuestionType = "what"
	QuestionWho   QuestionType = "who"
	QuestionWhere QuestionType = "where"
	QuestionWhy   QuestionType = "why"
	QuestionWhen  QuestionType = "when"
	QuestionHow   QuestionType = "how"
)

// Question is one clarifying question tied to a story. Regeneration
// deactivates old questions instead of deleting them so answers keep a
// resolvable foreign key.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	UserStoryID  uuid.UUID    `json:"user_story_id"`
	QuestionKey  string       `json:"question_key"`
	QuestionType QuestionType `json:"question_type"`
	QuestionText string       `json:"question_text"`
	IsActive     bool         `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Answer struct {
	ID          uuid.UUID `json:"id"`
	UserStoryID uuid.UUID `json:"user_story_id"`
	QuestionID  uuid.UUID `json:"question_id"`
	AnswerText  string    `json:"answer_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QnAPair joins an active question with its answer, if any.
type QnAPair struct {
	QuestionID   uuid.UUID    `json:"question_id"`
	QuestionType QuestionType `json:"question_type,omitempty"`
	Question     string       `json:"question"`
	AnswerID     *uuid.UUID   `json:"answer_id,omitempty"`
	Answer       string       `json:"answer,omitempty"`
}
