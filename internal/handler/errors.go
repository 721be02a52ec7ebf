package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-catalog/internal/service"
)

// Messages returned to clients.  Internal failures never expose detail.
const (
	msgInternal     = "Something went wrong!"
	msgShowNotFound = "Show not found"
	msgInvalidCreds = "Invalid credentials"
)

const dbTimeout = 5 * time.Second

// dbCtx bounds store work for a single request.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// respondError maps service errors onto HTTP responses.
func respondError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": msgShowNotFound})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": msgInvalidCreds})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": msgInternal})
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  Framework errors
// (unknown route, bad method, oversized body) keep their status; anything
// else becomes a generic 500 with the detail logged.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code != http.StatusInternalServerError {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		_ = c.JSON(he.Code, echo.Map{"message": msg})
		return
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": msgInternal})
}
