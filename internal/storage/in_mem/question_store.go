package in_mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/domain"
)

type QuestionStore struct {
	mu        sync.RWMutex
	questions map[uuid.UUID]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[uuid.UUID]domain.Question)}
}

func (s *QuestionStore) ActiveByStory(ctx context.Context, storyID uuid.UUID) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Question
	for _, q := range s.questions {
		if q.UserStoryID == storyID && q.IsActive {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionKey < out[j].QuestionKey })
	return out, nil
}

func (s *QuestionStore) ReplaceActive(ctx context.Context, storyID uuid.UUID, questions []domain.Question) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, q := range s.questions {
		if q.UserStoryID == storyID && q.IsActive {
			q.IsActive = false
			s.questions[id] = q
		}
	}

	saved := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.UserStoryID = storyID
		q.IsActive = true
		q.CreatedAt = time.Now()
		s.questions[q.ID] = q
		saved = append(saved, q)
	}
	return saved, nil
}

func (s *QuestionStore) ActiveQuestionExists(ctx context.Context, storyID, questionID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[questionID]
	return ok && q.UserStoryID == storyID && q.IsActive, nil
}

// All returns every stored question, inactive ones included.
func (s *QuestionStore) All() []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	return out
}
