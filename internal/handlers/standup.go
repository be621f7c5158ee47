package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/dto"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/services"
	"github.com/yukikurage/standup-api/internal/utils"
)

// StandupHandler serves daily standup endpoints.
type StandupHandler struct {
	standupService *services.StandupService
}

// NewStandupHandler creates a new StandupHandler.
func NewStandupHandler(standupService *services.StandupService) *StandupHandler {
	return &StandupHandler{standupService: standupService}
}

// SubmitStandup creates or replaces the caller's standup for a day
func (h *StandupHandler) SubmitStandup(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	userID, ok2 := middleware.GetUserID(c)
	if !ok || !ok2 {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type SubmitStandupRequest struct {
		Date      string `json:"date"`
		Yesterday string `json:"yesterday"`
		Today     string `json:"today"`
		Blockers  string `json:"blockers"`
	}

	var req SubmitStandupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	standup, err := h.standupService.Submit(c.Request.Context(), services.SubmitStandupInput{
		BoardID:   board.ID,
		UserID:    userID,
		Date:      req.Date,
		Yesterday: req.Yesterday,
		Today:     req.Today,
		Blockers:  req.Blockers,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStandupDTO(*standup))
}

// ListStandups returns a page of the board's standups
func (h *StandupHandler) ListStandups(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	standups, total, err := h.standupService.List(c.Request.Context(), services.ListStandupsInput{
		BoardID:    board.ID,
		Date:       c.Query("date"),
		UserID:     c.Query("user_id"),
		Pagination: params,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStandupListDTO(standups, params, total))
}

// DigestStandups returns an AI summary of one day of the board's standups
func (h *StandupHandler) DigestStandups(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type DigestRequest struct {
		Date string `json:"date"`
	}

	var req DigestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	digest, err := h.standupService.Digest(c.Request.Context(), board.ID, req.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, digest)
}
