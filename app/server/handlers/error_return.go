package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/types"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// er writes err as a JSON message. Server errors are logged and hidden.
func (a *App) er(c echo.Context, err error) error {
	statusCode := apperr.StatusCode(err)

	var msg string
	switch {
	case statusCode >= http.StatusInternalServerError:
		a.l.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		msg = http.StatusText(statusCode)
	case errors.Is(err, apperr.ErrUnauthenticated):
		msg = apperr.ErrUnauthenticated.Error()
	case errors.Is(err, apperr.ErrAlreadyVoted):
		msg = apperr.ErrAlreadyVoted.Error()
	default:
		msg = err.Error()
	}

	return c.JSON(statusCode, &types.Message{Message: msg})
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, name)
	}
	return uint(id), nil
}
