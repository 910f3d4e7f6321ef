package in_mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/domain"
)

type AnswerStore struct {
	mu      sync.RWMutex
	answers map[uuid.UUID]domain.Answer

	questions *QuestionStore
}

func NewAnswerStore(questions *QuestionStore) *AnswerStore {
	return &AnswerStore{
		answers:   make(map[uuid.UUID]domain.Answer),
		questions: questions,
	}
}

func (s *AnswerStore) Upsert(ctx context.Context, answer *domain.Answer) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.answers {
		if existing.UserStoryID == answer.UserStoryID && existing.QuestionID == answer.QuestionID {
			existing.AnswerText = answer.AnswerText
			existing.UpdatedAt = time.Now()
			s.answers[id] = existing
			return id, nil
		}
	}

	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	answer.CreatedAt = time.Now()
	answer.UpdatedAt = answer.CreatedAt
	s.answers[answer.ID] = *answer
	return answer.ID, nil
}

func (s *AnswerStore) QnAByStory(ctx context.Context, storyID uuid.UUID, unansweredToo bool) ([]domain.QnAPair, error) {
	active, _ := s.questions.ActiveByStory(ctx, storyID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var pairs []domain.QnAPair
	for _, q := range active {
		pair := domain.QnAPair{
			QuestionID:   q.ID,
			QuestionType: q.QuestionType,
			Question:     q.QuestionText,
		}
		answered := false
		for _, a := range s.answers {
			if a.UserStoryID == storyID && a.QuestionID == q.ID {
				id := a.ID
				pair.AnswerID = &id
				pair.Answer = a.AnswerText
				answered = true
				break
			}
		}
		if answered || unansweredToo {
			pairs = append(pairs, pair)
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Question < pairs[j].Question })
	return pairs, nil
}
