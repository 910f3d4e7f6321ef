package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name,omitempty"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	Active          bool      `json:"active"`
	ProfileImageKey string    `json:"profile_image_key,omitempty"`
}

/// Author is the creator profile attached 1:1 to a user with the creator
// role.
type Author struct {
	ID        uuid.UUID `json:"id"`
	Bio       string    `json:"bio,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
