package auth

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

var validate = validator.New()

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service authenticates credentials and issues token pairs.
type Service struct {
	users  storage.UserStore
	tokens *TokenManager
	logger *slog.Logger
}

func NewService(users storage.UserStore, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Login verifies the credentials. Bad email and bad password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenPair, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, apperr.NewValidationWrap("invalid login request", err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperr.NewUnauthorized("invalid credentials")
	}
	if !VerifyPassword(req.Password, user.PasswordHash) {
		return nil, nil, apperr.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, nil, apperr.NewForbidden("account is not active")
	}

	pair, err := s.tokens.CreateTokens(user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.NewUnauthorized("unknown user")
	}
	if !user.Active {
		return nil, apperr.NewForbidden("account is not active")
	}

	return s.tokens.CreateTokens(user)
}
