package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/domain"
)

type AnswerStore struct {
	db *pgxpool.Pool
}

func NewAnswerStore(pool *ConnectionPool) *AnswerStore {
	return &AnswerStore{db: pool.conn}
}

// Upsert relies on the (user_story_id, question_id) unique constraint:
// a resubmitted answer overwrites the previous text. Last commit wins
// under concurrency.
func (s *AnswerStore) Upsert(ctx context.Context, answer *domain.Answer) (uuid.UUID, error) {
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}

	var id uuid.UUID
	err := s.db.QueryRow(ctx, `
		INSERT INTO user_stories_answers (id, user_story_id, question_id, answer_text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_story_id, question_id)
		DO UPDATE SET answer_text = EXCLUDED.answer_text, updated_at = now()
		RETURNING id`,
		answer.ID, answer.UserStoryID, answer.QuestionID, answer.AnswerText,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapErr(err, "invalid answer data", "question not found")
	}
	return id, nil
}

func (s *AnswerStore) QnAByStory(ctx context.Context, storyID uuid.UUID, unansweredToo bool) ([]domain.QnAPair, error) {
	join := "JOIN"
	if unansweredToo {
		join = "LEFT JOIN"
	}

	rows, err := s.db.Query(ctx, `
		SELECT q.id, q.question_type, q.question_text, a.id, COALESCE(a.answer_text, '')
		FROM user_stories_questions q
		`+join+` user_stories_answers a ON a.question_id = q.id
		WHERE q.user_story_id = $1 AND q.is_active = TRUE
		ORDER BY q.created_at, q.question_key`, storyID)
	if err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	defer rows.Close()

	var pairs []domain.QnAPair
	for rows.Next() {
		var p domain.QnAPair
		if err := rows.Scan(&p.QuestionID, &p.QuestionType, &p.Question, &p.AnswerID, &p.Answer); err != nil {
			return nil, mapErr(err, "", "story not found")
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "story not found")
	}
	return pairs, nil
}
