package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
)

type AuthRouter struct {
	e       *echo.Echo
	service *auth.Service
}

func NewAuthRouter(e *echo.Echo, service *auth.Service) *AuthRouter {
	return &AuthRouter{e: e, service: service}
}

func (r *AuthRouter) Bind() {
	g := r.e.Group("/api/auth")

	g.POST("/login", r.loginHandler)
	g.POST("/refresh", r.refreshHandler)
}

func (r *AuthRouter) loginHandler(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	pair, user, err := r.service.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tokens": pair,
		"user":   user,
	})
}

func (r *AuthRouter) refreshHandler(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.RefreshToken == "" {
		return apperr.NewValidation("refresh_token is required")
	}

	pair, err := r.service.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}
