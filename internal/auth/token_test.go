package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:     uuid.New(),
		Email:  "reporter@example.com",
		Role:   domain.RoleCreator,
		Active: true,
	}
}

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestCreateTokens_RoundTrip(t *testing.T) {
	m := newTestManager()
	user := testUser()

	pair, err := m.CreateTokens(user)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, string(domain.RoleCreator), claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	refreshClaims, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, refreshClaims.Subject)
}

func TestParse_RejectsCrossedTokenKinds(t *testing.T) {
	m := newTestManager()
	pair, err := m.CreateTokens(testUser())
	require.NoError(t, err)

	var ue *apperr.UnauthorizedError
	_, err = m.ParseAccess(pair.RefreshToken)
	require.ErrorAs(t, err, &ue)
	_, err = m.ParseRefresh(pair.AccessToken)
	require.ErrorAs(t, err, &ue)
}

func TestParse_RejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	pair, err := m.CreateTokens(testUser())
	require.NoError(t, err)

	var ue *apperr.UnauthorizedError
	_, err = m.ParseAccess(pair.AccessToken)
	require.ErrorAs(t, err, &ue)
}

func TestParse_RejectsGarbage(t *testing.T) {
	m := newTestManager()
	var ue *apperr.UnauthorizedError
	_, err := m.ParseAccess("not-a-token")
	require.ErrorAs(t, err, &ue)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, VerifyPassword("hunter2hunter2", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}
