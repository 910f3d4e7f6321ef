package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/media"
)

type MediaRouter struct {
	e     *echo.Echo
	authn *auth.Authenticator
	store *media.Store
}

func NewMediaRouter(e *echo.Echo, authn *auth.Authenticator, store *media.Store) *MediaRouter {
	return &MediaRouter{e: e, authn: authn, store: store}
}

func (r *MediaRouter) Bind() {
	g := r.e.Group("/api/media", r.authn.Middleware(), auth.RequireRole(domain.RoleCreator, domain.RoleEditor, domain.RoleAdmin))

	g.POST("/presign", r.presignHandler)
	g.POST("/upload", r.uploadHandler)
}

func (r *MediaRouter) presignHandler(c echo.Context) error {
	var req struct {
		Filenames []string `json:"filenames"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if len(req.Filenames) == 0 {
		return apperr.NewValidation("filenames is required")
	}
	if len(req.Filenames) > domain.MaxArticleImages {
		return apperr.NewValidation("at most 3 images are allowed")
	}

	prefix := "article_images/" + auth.CurrentUser(c).ID.String()
	uploads, err := r.store.PresignUploads(c.Request().Context(), prefix, req.Filenames)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"uploads": uploads})
}

func (r *MediaRouter) uploadHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.NewValidationWrap("file is required", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.NewValidationWrap("failed to read file", err)
	}
	defer file.Close()

	prefix := "profile_images/" + auth.CurrentUser(c).ID.String()
	key, err := r.store.Upload(c.Request().Context(), prefix, fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"key": key,
		"url": r.store.ObjectURL(key),
	})
}
