package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/middlewares"
	"e-voting/app/server/types"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed body", apperr.ErrValidation))
	}
	if req.Identifier == "" || req.Password == "" {
		return a.er(c, fmt.Errorf("%w: identifier and password are required", apperr.ErrValidation))
	}

	user, err := a.users.FindUserByIdentifier(rctx, req.Identifier)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return a.er(c, errInvalidCredentials)
		}
		return a.er(c, err)
	}

	if match, err := a.users.VerifyPassword(user, req.Password); err != nil {
		return a.er(c, err)
	} else if !match {
		return a.er(c, errInvalidCredentials)
	}

	session, token, err := a.sessions.Create(rctx, user)
	if err != nil {
		return a.er(c, err)
	}
	a.l.Debug("session opened", zap.String("user", user.Identifier), zap.Stringer("sid", session.ID))

	return c.JSON(http.StatusOK, &types.LoginResponse{
		Token:      token,
		Identifier: user.Identifier,
		Name:       user.Name,
		Role:       user.Role,
	})
}

func (a *App) AuthLogout(c echo.Context) error {
	id := middlewares.IdentityFrom(c)
	if id == nil {
		return a.er(c, apperr.ErrUnauthenticated)
	}

	if err := a.sessions.Invalidate(c.Request().Context(), id.SessionID); err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &types.Message{Message: "Logged out successfully."})
}

func (a *App) UserInfoGetSelf(c echo.Context) error {
	id := middlewares.IdentityFrom(c)
	if id == nil {
		return a.er(c, apperr.ErrUnauthenticated)
	}

	user, err := a.users.FindUserByIdentifier(c.Request().Context(), id.UserIdentifier)
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &types.UserInfo{
		Identifier: user.Identifier,
		Name:       user.Name,
		Role:       user.Role,
	})
}
