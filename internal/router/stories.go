package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/articles"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/questions"
	"github.com/vartahub/newsdesk/internal/stories"
	"github.com/vartahub/newsdesk/pkg/pagination"
)

// StoriesRouter exposes the creator-side story pipeline.
type StoriesRouter struct {
	e           *echo.Echo
	authn       *auth.Authenticator
	service     *stories.Service
	questions   *questions.Generator
	synthesizer *articles.Synthesizer
}

func NewStoriesRouter(
	e *echo.Echo,
	authn *auth.Authenticator,
	service *stories.Service,
	generator *questions.Generator,
	synthesizer *articles.Synthesizer,
) *StoriesRouter {
	return &StoriesRouter{
		e:           e,
		authn:       authn,
		service:     service,
		questions:   generator,
		synthesizer: synthesizer,
	}
}

func (r *StoriesRouter) Bind() {
	g := r.e.Group("/api/stories", r.authn.Middleware(), auth.RequireRole(domain.RoleCreator))

	g.POST("/user", r.initiateHandler)
	g.GET("/user", r.listHandler)
	g.GET("/user/:id", r.getHandler)
	g.GET("/user/:id/questions", r.questionsHandler)
	g.POST("/user/:id/answers", r.answerHandler)
	g.GET("/user/:id/generate", r.generateHandler)
	g.POST("/user/:id/submit", r.submitHandler)
	g.PATCH("/articles/:id", r.updateArticleHandler)
}

func (r *StoriesRouter) initiateHandler(c echo.Context) error {
	var req stories.InitiateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	story, err := r.service.Initiate(c.Request().Context(), auth.CurrentUser(c).ID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, story)
}

func (r *StoriesRouter) listHandler(c echo.Context) error {
	bucket, ok := domain.ParseStoryBucket(c.QueryParam("status"))
	if !ok {
		bucket = domain.BucketDraft
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := page.Validate(); err != nil {
		return err
	}

	items, err := r.service.ListByBucket(c.Request().Context(), auth.CurrentUser(c).ID, bucket, page.Size, (page.Page-1)*page.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (r *StoriesRouter) getHandler(c echo.Context) error {
	storyID, err := pathID(c)
	if err != nil {
		return err
	}
	complete, err := r.service.GetComplete(c.Request().Context(), auth.CurrentUser(c).ID, storyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complete)
}

func (r *StoriesRouter) questionsHandler(c echo.Context) error {
	storyID, err := pathID(c)
	if err != nil {
		return err
	}
	regenerate := c.QueryParam("regenerate") == "true"

	qs, err := r.questions.Get(c.Request().Context(), auth.CurrentUser(c).ID, storyID, regenerate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"questions": qs})
}

func (r *StoriesRouter) answerHandler(c echo.Context) error {
	storyID, err := pathID(c)
	if err != nil {
		return err
	}
	var req stories.AnswerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	answerID, err := r.service.SubmitAnswer(c.Request().Context(), auth.CurrentUser(c).ID, storyID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"answer_id": answerID})
}

func (r *StoriesRouter) generateHandler(c echo.Context) error {
	storyID, err := pathID(c)
	if err != nil {
		return err
	}
	regenerate := c.QueryParam("regenerate") == "true"

	article, err := r.synthesizer.Synthesize(c.Request().Context(), auth.CurrentUser(c).ID, storyID, regenerate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *StoriesRouter) submitHandler(c echo.Context) error {
	storyID, err := pathID(c)
	if err != nil {
		return err
	}
	var req stories.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if err := r.service.Submit(c.Request().Context(), auth.CurrentUser(c).ID, storyID, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "submitted"})
}

func (r *StoriesRouter) updateArticleHandler(c echo.Context) error {
	articleID, err := pathID(c)
	if err != nil {
		return err
	}
	var req stories.ArticleEditRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.service.UpdateArticle(c.Request().Context(), auth.CurrentUser(c).ID, articleID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid id", err)
	}
	return id, nil
}
