package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GlobalErrorHandler maps application errors to their status category.
// Wrapped driver errors are logged but never echoed back to the client.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var ce *ConflictError
		if errors.As(err, &ce) {
			_ = c.JSON(http.StatusConflict, map[string]string{"error": ce.Message, "title": "conflict"})
			return
		}

		var nf *NotFoundError
		if errors.As(err, &nf) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nf.Message, "title": "not found"})
			return
		}

		var fe *ForbiddenError
		if errors.As(err, &fe) {
			_ = c.JSON(http.StatusForbidden, map[string]string{"error": fe.Message, "title": "forbidden"})
			return
		}

		var ue *UnauthorizedError
		if errors.As(err, &ue) {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{"error": ue.Message, "title": "unauthorized"})
			return
		}

		var upe *UpstreamError
		if errors.As(err, &upe) {
			slog.Error("Upstream failure", "error", err)
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": upe.Message, "title": "upstream error"})
			return
		}

		var pe *PersistenceError
		if errors.As(err, &pe) {
			slog.Error("Persistence failure", "error", err)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": pe.Message})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
