package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusBadRequest,
	domain.KindRateLimited:     http.StatusTooManyRequests,
	domain.KindInternal:        http.StatusInternalServerError,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to HTTP status codes.
//   - Logs unexpected errors without leaking their cause to the client.
//   - Renders {"message", "errors", "stack"}; stack only when exposeStack is set.
func NewHTTPErrorHandler(log zerolog.Logger, exposeStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if exposeStack {
			body.Stack = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		metrics.ErrorResponsesTotal.WithLabelValues("http").Inc()
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	kind := domain.KindOf(err)
	metrics.ErrorResponsesTotal.WithLabelValues(kind.String()).Inc()

	if kind == domain.KindInternal {
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("unhandled error")
		return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
	}

	return kindStatus[kind], errorResponse{
		Message: domain.PublicMessage(err),
		Errors:  domain.ValidationDetails(err),
	}
}
