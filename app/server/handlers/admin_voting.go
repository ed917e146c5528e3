package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/ledger"
	"e-voting/app/server/types"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func bindVotingInput(c echo.Context) (ledger.VotingInput, error) {
	var req types.VotingInput
	if err := c.Bind(&req); err != nil {
		return ledger.VotingInput{}, fmt.Errorf("%w: malformed body", apperr.ErrValidation)
	}
	return ledger.VotingInput{Title: req.Title, StartsAt: req.StartsAt, EndsAt: req.EndsAt}, nil
}

func (a *App) AdminVotingCreate(c echo.Context) error {
	in, err := bindVotingInput(c)
	if err != nil {
		return a.er(c, err)
	}

	voting, err := a.ledger.CreateEvent(c.Request().Context(), in)
	if err != nil {
		return a.er(c, err)
	}
	a.l.Info("voting created", zap.Uint("id", voting.ID), zap.String("title", voting.Title))

	return c.JSON(http.StatusCreated, votingInfo(voting))
}

func (a *App) AdminVotingUpdate(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}
	in, err := bindVotingInput(c)
	if err != nil {
		return a.er(c, err)
	}

	voting, err := a.ledger.UpdateEvent(c.Request().Context(), id, in)
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusOK, votingInfo(voting))
}

func (a *App) AdminVotingDelete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	if err := a.ledger.DeleteEvent(c.Request().Context(), id); err != nil {
		return a.er(c, err)
	}
	a.l.Info("voting deleted", zap.Uint("id", id))

	return c.NoContent(http.StatusNoContent)
}
