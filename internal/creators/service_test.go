package creators

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage/in_mem"
)

func newTestService() (*Service, *in_mem.UserStore) {
	users := in_mem.NewUserStore()
	return NewService(users, slog.Default()), users
}

func signupRequest() *SignupRequest {
	return &SignupRequest{
		FirstName: "Asha",
		Email:     "asha@example.com",
		Password:  "longenoughpw",
		Bio:       "City desk reporter.",
	}
}

func TestSignup_StartsInactive(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.False(t, user.Active, "signups wait for admin approval")
	assert.Equal(t, domain.RoleCreator, user.Role)
	assert.True(t, auth.VerifyPassword("longenoughpw", user.PasswordHash))

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "City desk reporter.", profile.Bio)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupRequest())
	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
	}{
		{"missing first name", func(r *SignupRequest) { r.FirstName = "" }},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *SignupRequest) { r.Password = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signupRequest()
			tt.mutate(req)
			_, err := svc.Signup(context.Background(), req)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateUser_EditorIsActiveImmediately(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.CreateUser(context.Background(), &NewUserRequest{
		FirstName: "Ravi",
		Email:     "ravi@example.com",
		Password:  "longenoughpw",
		Role:      "editor",
	})
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.Equal(t, domain.RoleEditor, user.Role)
}

func TestChangePassword(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()
	user, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "anotherlongpw",
	})
	var ue *apperr.UnauthorizedError
	require.ErrorAs(t, err, &ue)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		OldPassword: "longenoughpw",
		NewPassword: "anotherlongpw",
	}))

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("anotherlongpw", stored.PasswordHash))
}

func TestUpdateProfile_RequiresAField(t *testing.T) {
	svc, _ := newTestService()
	user, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	err = svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileRequest{})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	bio := "Now covering civic issues."
	require.NoError(t, svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileRequest{Bio: &bio}))

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, profile.Bio)
}

func TestSetActive_ApprovesSignup(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()
	user, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, user.ID, true))
	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestListByRole_UnknownRole(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ListByRole(context.Background(), domain.Role("superuser"), 10, 0)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}
