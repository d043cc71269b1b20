package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"marketstock.GO/config"
	"marketstock.GO/core/apperror"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidState), errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"error": ...}. Unexpected errors are logged and not echoed back.
func Error(c echo.Context, module string, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		config.LogError(config.GetLogger(), module, c.Request().Method+" "+c.Path(), "request", c.ParamValues(), err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
