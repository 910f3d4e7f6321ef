package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

const userContextKey = "auth.user"

// Authenticator is the route guard. It resolves the bearer token to a
// live user row on every request so deactivated accounts lose access
// immediately, not at token expiry.
type Authenticator struct {
	tokens *TokenManager
	users  storage.UserStore
}

func NewAuthenticator(tokens *TokenManager, users storage.UserStore) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			claims, err := a.tokens.ParseAccess(token)
			if err != nil {
				return err
			}
			userID, err := claims.UserID()
			if err != nil {
				return err
			}

			user, err := a.users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return apperr.NewUnauthorized("unknown user")
			}
			if !user.Active {
				return apperr.NewForbidden("account is not active")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRole allows only the listed roles past. Must run after
// Middleware.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperr.NewUnauthorized("authentication required")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperr.NewForbidden("insufficient role")
		}
	}
}

// CurrentUser returns the authenticated user, or nil outside guarded
// routes.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperr.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperr.NewUnauthorized("malformed authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
