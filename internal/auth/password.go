package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/vartahub/newsdesk/internal/apperr"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.NewValidationWrap("failed to hash password", err)
	}
	return string(hash), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
