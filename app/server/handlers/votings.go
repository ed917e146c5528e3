package handlers

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/ledger"
	"e-voting/app/server/middlewares"
	"e-voting/app/server/models"
	"e-voting/app/server/types"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func votingInfo(v *models.Voting) types.VotingInfo {
	return types.VotingInfo{
		ID:       v.ID,
		Title:    v.Title,
		StartsAt: v.StartsAt,
		EndsAt:   v.EndsAt,
	}
}

func candidateInfo(c *models.Candidate) types.CandidateInfo {
	return types.CandidateInfo{
		ID:            c.ID,
		VotingID:      c.VotingID,
		Name:          c.Name,
		ExternalID:    c.ExternalID,
		PhotoRef:      c.PhotoRef,
		Description:   c.Description,
		VisionMission: c.VisionMission,
	}
}

func resultsResponse(t *ledger.Tally) *types.ResultsResponse {
	res := &types.ResultsResponse{
		VotingID:   t.VotingID,
		TotalVotes: t.TotalVotes,
		Results:    make([]types.ResultRow, 0, len(t.Results)),
	}
	for _, r := range t.Results {
		res.Results = append(res.Results, types.ResultRow{
			CandidateInfo: types.CandidateInfo{
				ID:            r.CandidateID,
				VotingID:      t.VotingID,
				Name:          r.Name,
				ExternalID:    r.ExternalID,
				PhotoRef:      r.PhotoRef,
				Description:   r.Description,
				VisionMission: r.VisionMission,
			},
			Votes: r.Votes,
		})
	}
	return res
}

func (a *App) VotingList(c echo.Context) error {
	votings, err := a.ledger.ListEvents(c.Request().Context())
	if err != nil {
		return a.er(c, err)
	}

	res := make([]types.VotingInfo, 0, len(votings))
	for i := range votings {
		res = append(res, votingInfo(&votings[i]))
	}
	return c.JSON(http.StatusOK, res)
}

func (a *App) VotingGet(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	voting, err := a.ledger.GetEvent(c.Request().Context(), id)
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusOK, votingInfo(voting))
}

func (a *App) VotingCandidates(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	candidates, err := a.ledger.ListCandidates(c.Request().Context(), id)
	if err != nil {
		return a.er(c, err)
	}

	res := make([]types.CandidateInfo, 0, len(candidates))
	for i := range candidates {
		res = append(res, candidateInfo(&candidates[i]))
	}
	return c.JSON(http.StatusOK, res)
}

func (a *App) VotingCast(c echo.Context) error {
	votingID, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	var req types.VoteRequest
	if err := c.Bind(&req); err != nil || req.CandidateID == 0 {
		return a.er(c, fmt.Errorf("%w: candidate_id is required", apperr.ErrValidation))
	}

	vote, err := a.votes.CastVote(c.Request().Context(), votingID, req.CandidateID, middlewares.IdentityFrom(c))
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &types.VoteReceipt{
		Message:  "Your vote has been successfully recorded.",
		VotingID: vote.VotingID,
		VotedAt:  vote.CreatedAt,
	})
}

func (a *App) VotingResults(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return a.er(c, err)
	}

	tally, err := a.ledger.Tally(c.Request().Context(), id)
	if err != nil {
		return a.er(c, err)
	}
	return c.JSON(http.StatusOK, resultsResponse(tally))
}
