package controller

import (
	"ctchen222/Rock-Paper-Scissors/internal/api/models"
	"ctchen222/Rock-Paper-Scissors/internal/api/response"
	"ctchen222/Rock-Paper-Scissors/internal/api/service"
	"ctchen222/Rock-Paper-Scissors/internal/repository"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsController handles statistics-related HTTP requests.
type StatsController struct {
	statsService service.StatsService
}

// NewStatsController creates a new StatsController.
func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// History returns every recorded round.
func (sc *StatsController) History(c *gin.Context) {
	response.SuccessResponse(c, sc.statsService.History(c.Request.Context()))
}

// Summary returns the ten most recent round descriptions.
func (sc *StatsController) Summary(c *gin.Context) {
	response.SuccessResponseList(c, sc.statsService.Summary(c.Request.Context()))
}

// Stats returns the aggregate over the round log.
func (sc *StatsController) Stats(c *gin.Context) {
	response.SuccessResponse(c, sc.statsService.Stats(c.Request.Context()))
}

// Leaderboard handles the leaderboard endpoint.
func (sc *StatsController) Leaderboard(c *gin.Context) {
	var req models.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	board, err := sc.statsService.Leaderboard(c.Request.Context(), req.MinGames)
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponseList(c, board)
}

// Player returns a single player's lifetime stats.
func (sc *StatsController) Player(c *gin.Context) {
	st, err := sc.statsService.Player(c.Request.Context(), c.Param("name"))
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, st)
}

// Session returns the live match snapshot.
func (sc *StatsController) Session(c *gin.Context) {
	snap, err := sc.statsService.Session(c.Request.Context())
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, snap)
}

func (sc *StatsController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrPlayerNotFound), errors.Is(err, service.ErrNoSession):
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyName):
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStatsUnavailable):
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "Stats request failed", "http.path", c.FullPath(), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
