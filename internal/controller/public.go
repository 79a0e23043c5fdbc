package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/service"
)

type PublicController interface {
	Contestants(c echo.Context) error
	Vote(c echo.Context) error
}

type publicController struct {
	voteService service.VoteService
}

func newPublicController(voteService service.VoteService) PublicController {
	return &publicController{
		voteService: voteService,
	}
}

func (p publicController) Contestants(c echo.Context) error {
	entrants, err := p.voteService.PublicEntrants()
	if err != nil {
		logrus.Errorf("Listing contestants failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, entrants)
}

func (p publicController) Vote(c echo.Context) error {
	var request dto.VoteRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := p.voteService.CastVote(c.Request().Context(), request.UserID, request.EntrantID)
	switch result.Status {
	case service.VoteAccepted:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":         "vote recorded",
			"new_total_votes": result.NewEntrantTotal,
			"system_total":    result.SystemTotal,
		})
	case service.VoteRejected:
		switch result.Reason {
		case service.ReasonDuplicateVote:
			return echo.NewHTTPError(http.StatusConflict, "you have already voted for this contestant")
		case service.ReasonUnknownEntrant:
			return echo.NewHTTPError(http.StatusNotFound, "contestant not found")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "user and contestant ids are required")
		}
	default:
		logrus.Errorf("Vote admission failed for voter %s entrant %s: %v", request.UserID, request.EntrantID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
