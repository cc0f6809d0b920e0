package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ctchen222/LLM-Arena/internal/api/models"
	"ctchen222/LLM-Arena/internal/api/response"
	"ctchen222/LLM-Arena/internal/api/service"
	arenarepo "ctchen222/LLM-Arena/internal/repository"
)

// ArenaController handles arena queries and tournament launches.
type ArenaController struct {
	arenaService service.ArenaService
}

// NewArenaController creates a new ArenaController.
func NewArenaController(arenaService service.ArenaService) *ArenaController {
	return &ArenaController{
		arenaService: arenaService,
	}
}

// Leaderboard returns the all-time standings rebuilt from stored games.
func (ac *ArenaController) Leaderboard(c *gin.Context) {
	board, err := ac.arenaService.Leaderboard(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"leaderboard": board})
}

// ListMatches returns recent match summaries.
func (ac *ArenaController) ListMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	matches, err := ac.arenaService.ListMatches(c.Request.Context(), limit)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"matches": matches})
}

// GetGame returns one stored game, moves included.
func (ac *ArenaController) GetGame(c *gin.Context) {
	record, err := ac.arenaService.GetGame(c.Request.Context(), c.Param("id"))
	if errors.Is(err, arenarepo.ErrGameNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, record)
}

// LiveGames returns the games currently in progress.
func (ac *ArenaController) LiveGames(c *gin.Context) {
	games, err := ac.arenaService.LiveGames(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"games": games})
}

// StartTournament launches a tournament run in the background.
func (ac *ArenaController) StartTournament(c *gin.Context) {
	var req models.TournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	status, err := ac.arenaService.StartTournament(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, response.NewResponse(true, http.StatusAccepted, status))
}

// TournamentStatus reports the progress of a launched run.
func (ac *ArenaController) TournamentStatus(c *gin.Context) {
	status, err := ac.arenaService.TournamentStatus(c.Param("id"))
	if errors.Is(err, service.ErrRunNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, status)
}
