package in_mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]domain.User
	authors map[uuid.UUID]domain.Author
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]domain.User),
		authors: make(map[uuid.UUID]domain.Author),
	}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, apperr.NewNotFound("user not found")
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NewNotFound("user not found")
	}
	return &u, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(user)
}

func (s *UserStore) CreateCreator(ctx context.Context, user *domain.User, bio string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insert(user); err != nil {
		return err
	}
	s.authors[user.ID] = domain.Author{ID: user.ID, Bio: bio, UpdatedAt: time.Now()}
	return nil
}

func (s *UserStore) insert(user *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.NewConflict("user already exists")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetAuthorProfile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil, apperr.NewNotFound("user not found")
	}
	if a, ok := s.authors[userID]; ok {
		return &u, &a, nil
	}
	return &u, nil, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, bio *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperr.NewNotFound("user not found")
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	s.users[userID] = u

	if bio != nil {
		a := s.authors[userID]
		a.ID = userID
		a.Bio = *bio
		a.UpdatedAt = time.Now()
		s.authors[userID] = a
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperr.NewNotFound("user not found")
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperr.NewNotFound("user not found")
	}
	u.Active = active
	s.users[userID] = u
	return nil
}

func (s *UserStore) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return paginate(out, limit, offset), nil
}
