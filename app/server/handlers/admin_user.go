package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/credentials"
	"e-voting/app/server/models"
	"e-voting/app/server/types"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func userInfo(u *models.User) types.UserInfo {
	return types.UserInfo{
		Identifier: u.Identifier,
		Name:       u.Name,
		Role:       u.Role,
	}
}

func (a *App) AdminUserList(c echo.Context) error {
	var params types.UserListParams
	if err := c.Bind(&params); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed query", apperr.ErrValidation))
	}

	showAll, page, limit := a.parsePagination(params.Page, params.Limit)
	offset := page * limit
	if showAll {
		offset, limit = 0, 0
	}

	users, count, err := a.users.ListUsers(c.Request().Context(), offset, limit)
	if err != nil {
		return a.er(c, err)
	}

	res := types.UserListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(count, showAll, limit),
		Total:   count,
		List:    make([]types.UserInfo, 0, len(users)),
	}
	for i := range users {
		res.List = append(res.List, userInfo(&users[i]))
	}
	return c.JSON(http.StatusOK, &res)
}

func (a *App) AdminUserCreate(c echo.Context) error {
	var req types.UserCreateRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed body", apperr.ErrValidation))
	}

	user, err := a.users.CreateUser(c.Request().Context(), credentials.CreateInput{
		Identifier: req.Identifier,
		Name:       req.Name,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		return a.er(c, err)
	}
	a.l.Info("user created", zap.String("identifier", user.Identifier), zap.String("role", user.Role))

	return c.JSON(http.StatusCreated, userInfo(user))
}

func (a *App) AdminUserUpdate(c echo.Context) error {
	identifier := c.Param("identifier")

	var req types.UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed body", apperr.ErrValidation))
	}

	user, err := a.users.UpdateUser(c.Request().Context(), identifier, credentials.UpdateInput{
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusOK, userInfo(user))
}

func (a *App) AdminUserDelete(c echo.Context) error {
	identifier := c.Param("identifier")

	if err := a.users.DeleteUser(c.Request().Context(), identifier); err != nil {
		return a.er(c, err)
	}
	a.l.Info("user deleted", zap.String("identifier", identifier))

	return c.NoContent(http.StatusNoContent)
}
