package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/creators"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/pkg/pagination"
)

type AdminRouter struct {
	e       *echo.Echo
	authn   *auth.Authenticator
	service *creators.Service
}

func NewAdminRouter(e *echo.Echo, authn *auth.Authenticator, service *creators.Service) *AdminRouter {
	return &AdminRouter{e: e, authn: authn, service: service}
}

func (r *AdminRouter) Bind() {
	g := r.e.Group("/api/admin", r.authn.Middleware(), auth.RequireRole(domain.RoleAdmin))

	g.POST("/users", r.createUserHandler)
	g.GET("/users", r.listUsersHandler)
	g.PATCH("/users/:id/active", r.setActiveHandler)
}

func (r *AdminRouter) createUserHandler(c echo.Context) error {
	var req creators.NewUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	user, err := r.service.CreateUser(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (r *AdminRouter) listUsersHandler(c echo.Context) error {
	role := domain.Role(c.QueryParam("role"))
	if role == "" {
		role = domain.RoleCreator
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := page.Validate(); err != nil {
		return err
	}

	users, err := r.service.ListByRole(c.Request().Context(), role, page.Size, (page.Page-1)*page.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (r *AdminRouter) setActiveHandler(c echo.Context) error {
	userID, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Active == nil {
		return apperr.NewValidation("active is required")
	}

	if err := r.service.SetActive(c.Request().Context(), userID, *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
