package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/articles"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/newsfeed"
	"github.com/vartahub/newsdesk/internal/storage"
	"github.com/vartahub/newsdesk/pkg/pagination"
)

// NewsRouter serves the public reading surface: location-scoped external
// news, RSS feeds and published articles.
type NewsRouter struct {
	e          *echo.Echo
	scheduler  *newsfeed.Scheduler
	aggregator *newsfeed.Aggregator
	articles   storage.ArticleStore
}

func NewNewsRouter(e *echo.Echo, scheduler *newsfeed.Scheduler, aggregator *newsfeed.Aggregator, articles storage.ArticleStore) *NewsRouter {
	return &NewsRouter{
		e:          e,
		scheduler:  scheduler,
		aggregator: aggregator,
		articles:   articles,
	}
}

func (r *NewsRouter) Bind() {
	g := r.e.Group("/api/news")

	g.POST("/location", r.locationHandler)
	g.GET("/feeds", r.feedsHandler)
	g.GET("/articles", r.publishedHandler)
	g.GET("/articles/:slug", r.bySlugHandler)
	g.GET("/authors/:id/articles", r.byAuthorHandler)
}

func (r *NewsRouter) locationHandler(c echo.Context) error {
	var req newsfeed.LocationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	stories, err := r.scheduler.GetNews(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"stories": stories})
}

func (r *NewsRouter) feedsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.aggregator.FetchAll(c.Request().Context()))
}

func (r *NewsRouter) publishedHandler(c echo.Context) error {
	var category *domain.Category
	if raw := c.QueryParam("category"); raw != "" {
		normalized, ok := domain.NormalizeCategory(raw)
		if !ok {
			return apperr.NewValidation("unknown category")
		}
		category = &normalized
	}

	var page pagination.CursorRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := page.Validate(); err != nil {
		return err
	}

	var (
		before   *time.Time
		beforeID uuid.UUID
	)
	if page.Cursor != nil {
		cursor, err := articles.DecodeFeedCursor(*page.Cursor)
		if err != nil {
			return apperr.NewValidationWrap("invalid cursor", err)
		}
		if cursor != nil {
			before = &cursor.PublishedAt
			beforeID = cursor.ID
		}
	}

	// one extra row decides has_more without a count query
	items, err := r.articles.ListPublished(c.Request().Context(), category, before, beforeID, page.Size+1)
	if err != nil {
		return err
	}

	result, err := pagination.NewCursorResult(items, page.Size, func(a domain.GeneratedArticle) (string, error) {
		at := a.CreatedAt
		if a.PublishedAt != nil {
			at = *a.PublishedAt
		}
		return articles.EncodeFeedCursor(at, a.ID)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (r *NewsRouter) bySlugHandler(c echo.Context) error {
	article, err := r.articles.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *NewsRouter) byAuthorHandler(c echo.Context) error {
	authorID, err := pathID(c)
	if err != nil {
		return err
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := page.Validate(); err != nil {
		return err
	}

	items, err := r.articles.ListPublishedByAuthor(c.Request().Context(), authorID, page.Size, (page.Page-1)*page.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
