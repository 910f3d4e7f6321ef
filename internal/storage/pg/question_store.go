package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/domain"
)

type QuestionStore struct {
	db *pgxpool.Pool
}

func NewQuestionStore(pool *ConnectionPool) *QuestionStore {
	return &QuestionStore{db: pool.conn}
}

func (s *QuestionStore) ActiveByStory(ctx context.Context, storyID uuid.UUID) ([]domain.Question, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_story_id, question_key, question_type, question_text, is_active, created_at
		FROM user_stories_questions
		WHERE user_story_id = $1 AND is_active = TRUE
		ORDER BY created_at, question_key`, storyID)
	if err != nil {
		return nil, mapErr(err, "", "questions not found")
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.UserStoryID, &q.QuestionKey, &q.QuestionType, &q.QuestionText, &q.IsActive, &q.CreatedAt); err != nil {
			return nil, mapErr(err, "", "questions not found")
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "questions not found")
	}
	return questions, nil
}

// ReplaceActive runs deactivate-then-insert in one transaction so a
// failed insert never leaves the story without questions.
func (s *QuestionStore) ReplaceActive(ctx context.Context, storyID uuid.UUID, questions []domain.Question) ([]domain.Question, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE user_stories_questions SET is_active = FALSE
		WHERE user_story_id = $1`, storyID); err != nil {
		return nil, mapErr(err, "", "story not found")
	}

	stored := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.UserStoryID = storyID
		q.IsActive = true

		err := tx.QueryRow(ctx, `
			INSERT INTO user_stories_questions
				(id, user_story_id, question_key, question_type, question_text, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING created_at`,
			q.ID, q.UserStoryID, q.QuestionKey, q.QuestionType, q.QuestionText,
		).Scan(&q.CreatedAt)
		if err != nil {
			return nil, mapErr(err, "duplicate question", "story not found")
		}
		stored = append(stored, q)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	return stored, nil
}

func (s *QuestionStore) ActiveQuestionExists(ctx context.Context, storyID, questionID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_stories_questions
			WHERE id = $1 AND user_story_id = $2 AND is_active = TRUE
		)`, questionID, storyID).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "", "question not found")
	}
	return exists, nil
}
