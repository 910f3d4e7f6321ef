// Package creators manages creator accounts: signup, profile upkeep and
// the admin controls over account state.
package creators

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

var validate = validator.New()

type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Bio       string `json:"bio" validate:"omitempty,max=2000"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// NewUserRequest is the admin path for provisioning editor and admin
// accounts.
type NewUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,oneof=admin creator editor"`
}

type Service struct {
	users  storage.UserStore
	logger *slog.Logger
}

func NewService(users storage.UserStore, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Signup registers a creator account. The account starts inactive and
// stays locked out until an admin approves it.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperr.NewValidationWrap("invalid signup request", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleCreator,
		Active:       false,
	}
	if err := s.users.CreateCreator(ctx, user, req.Bio); err != nil {
		return nil, err
	}
	s.logger.Info("creator signed up", "user_id", user.ID)
	return user, nil
}

// CreateUser is the admin path: new accounts are active immediately.
func (s *Service) CreateUser(ctx context.Context, req *NewUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperr.NewValidationWrap("invalid user request", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.Role(req.Role),
		Active:       true,
	}
	if user.Role == domain.RoleCreator {
		if err := s.users.CreateCreator(ctx, user, ""); err != nil {
			return nil, err
		}
	} else {
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Profile is the creator's account joined with the author bio.
type Profile struct {
	User *domain.User `json:"user"`
	Bio  string       `json:"bio,omitempty"`
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, author, err := s.users.GetAuthorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: user}
	if author != nil {
		profile.Bio = author.Bio
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) error {
	if err := validate.Struct(req); err != nil {
		return apperr.NewValidationWrap("invalid profile update", err)
	}
	if req.FirstName == nil && req.LastName == nil && req.Bio == nil {
		return apperr.NewValidation("no fields to update")
	}
	return s.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.Bio)
}

// ChangePassword requires the current password before accepting the new
// one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return apperr.NewValidationWrap("invalid password change", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return apperr.NewUnauthorized("current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// SetActive toggles an account. Approving a creator signup and
// deactivating a misbehaving account are the same operation.
func (s *Service) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.logger.Info("account state changed", "user_id", userID, "active", active)
	return nil
}

func (s *Service) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	switch role {
	case domain.RoleAdmin, domain.RoleCreator, domain.RoleEditor:
	default:
		return nil, apperr.NewValidation("unknown role")
	}
	return s.users.ListByRole(ctx, role, limit, offset)
}
