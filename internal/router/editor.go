package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/editorial"
	"github.com/vartahub/newsdesk/pkg/pagination"
)

// EditorRouter exposes the review desk.
type EditorRouter struct {
	e        *echo.Echo
	authn    *auth.Authenticator
	workflow *editorial.Workflow
}

func NewEditorRouter(e *echo.Echo, authn *auth.Authenticator, workflow *editorial.Workflow) *EditorRouter {
	return &EditorRouter{e: e, authn: authn, workflow: workflow}
}

func (r *EditorRouter) Bind() {
	g := r.e.Group("/api/editor", r.authn.Middleware(), auth.RequireRole(domain.RoleEditor, domain.RoleAdmin))

	g.GET("/articles", r.listHandler)
	g.PATCH("/articles/:id", r.editHandler)
	g.POST("/articles/:id/publish", r.publishHandler)
	g.POST("/articles/:id/reject", r.rejectHandler)
}

func (r *EditorRouter) listHandler(c echo.Context) error {
	status := domain.PublishStatus(c.QueryParam("status"))
	if status == "" {
		status = domain.PublishPending
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := page.Validate(); err != nil {
		return err
	}

	items, err := r.workflow.ListByStatus(c.Request().Context(), auth.CurrentUser(c).ID, status, page.Size, (page.Page-1)*page.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (r *EditorRouter) editHandler(c echo.Context) error {
	articleID, err := pathID(c)
	if err != nil {
		return err
	}
	var req editorial.EditRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.workflow.Edit(c.Request().Context(), auth.CurrentUser(c).ID, articleID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *EditorRouter) publishHandler(c echo.Context) error {
	articleID, err := pathID(c)
	if err != nil {
		return err
	}
	article, err := r.workflow.Publish(c.Request().Context(), auth.CurrentUser(c).ID, articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *EditorRouter) rejectHandler(c echo.Context) error {
	articleID, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.workflow.Reject(c.Request().Context(), auth.CurrentUser(c).ID, articleID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}
