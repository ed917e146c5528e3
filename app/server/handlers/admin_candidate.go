package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/ledger"
	"e-voting/app/server/types"
	"e-voting/app/server/utils"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) AdminCandidateCreate(c echo.Context) error {
	votingID, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	var req types.CandidateInput
	if err := c.Bind(&req); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed body", apperr.ErrValidation))
	}

	candidate, err := a.ledger.AddCandidate(c.Request().Context(), votingID, ledger.CandidateInput{
		Name:          utils.V(req.Name),
		ExternalID:    utils.V(req.ExternalID),
		PhotoRef:      utils.V(req.PhotoRef),
		Description:   utils.V(req.Description),
		VisionMission: utils.V(req.VisionMission),
	})
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusCreated, candidateInfo(candidate))
}

func (a *App) AdminCandidateUpdate(c echo.Context) error {
	votingID, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}
	candidateID, err := paramID(c, "cid")
	if err != nil {
		return a.er(c, err)
	}

	var req types.CandidateInput
	if err := c.Bind(&req); err != nil {
		return a.er(c, fmt.Errorf("%w: malformed body", apperr.ErrValidation))
	}

	candidate, err := a.ledger.UpdateCandidate(c.Request().Context(), votingID, candidateID, ledger.CandidatePatch{
		Name:          req.Name,
		ExternalID:    req.ExternalID,
		PhotoRef:      req.PhotoRef,
		Description:   req.Description,
		VisionMission: req.VisionMission,
	})
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusOK, candidateInfo(candidate))
}

func (a *App) AdminCandidateDelete(c echo.Context) error {
	votingID, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}
	candidateID, err := paramID(c, "cid")
	if err != nil {
		return a.er(c, err)
	}

	if err := a.ledger.DeleteCandidate(c.Request().Context(), candidateID, votingID); err != nil {
		return a.er(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
