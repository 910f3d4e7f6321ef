package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/creators"
	"github.com/vartahub/newsdesk/internal/domain"
)

type CreatorsRouter struct {
	e       *echo.Echo
	authn   *auth.Authenticator
	service *creators.Service
}

func NewCreatorsRouter(e *echo.Echo, authn *auth.Authenticator, service *creators.Service) *CreatorsRouter {
	return &CreatorsRouter{e: e, authn: authn, service: service}
}

func (r *CreatorsRouter) Bind() {
	// signup is the only unauthenticated creator route
	r.e.POST("/api/creator/signup", r.signupHandler)

	g := r.e.Group("/api/creator", r.authn.Middleware(), auth.RequireRole(domain.RoleCreator))
	g.GET("/profile", r.profileHandler)
	g.PATCH("/profile", r.updateProfileHandler)
	g.POST("/password", r.changePasswordHandler)
}

func (r *CreatorsRouter) signupHandler(c echo.Context) error {
	var req creators.SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	user, err := r.service.Signup(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (r *CreatorsRouter) profileHandler(c echo.Context) error {
	profile, err := r.service.GetProfile(c.Request().Context(), auth.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (r *CreatorsRouter) updateProfileHandler(c echo.Context) error {
	var req creators.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if err := r.service.UpdateProfile(c.Request().Context(), auth.CurrentUser(c).ID, &req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *CreatorsRouter) changePasswordHandler(c echo.Context) error {
	var req creators.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if err := r.service.ChangePassword(c.Request().Context(), auth.CurrentUser(c).ID, &req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
