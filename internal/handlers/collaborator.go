package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/dto"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/services"
)

// CollaboratorHandler serves board membership endpoints. Replacing the roster
// must leave at least one admin; Reconcile itself does not check this.
type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
}

// NewCollaboratorHandler creates a new CollaboratorHandler.
func NewCollaboratorHandler(collaboratorService *services.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{collaboratorService: collaboratorService}
}

func respondLastAdmin(c *gin.Context) {
	apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.NewAPIError(
		apierrors.ErrCodeLastAdmin,
		"A board must keep at least one admin",
	))
}

// ListCollaborators returns the board roster with profiles
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	collaborators, err := h.collaboratorService.List(c.Request.Context(), board.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collaborators": dto.ToCollaboratorDTOs(collaborators),
	})
}

// ReplaceCollaborators sets the complete roster of a board
func (h *CollaboratorHandler) ReplaceCollaborators(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type CollaboratorEntry struct {
		UserID string           `json:"user_id" binding:"required,max=64"`
		Role   models.BoardRole `json:"role" binding:"required,oneof=admin collaborator"`
	}
	type ReplaceCollaboratorsRequest struct {
		Collaborators []CollaboratorEntry `json:"collaborators" binding:"dive"`
	}

	var req ReplaceCollaboratorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	desired := make([]services.DesiredCollaborator, len(req.Collaborators))
	hasAdmin := false
	for i, entry := range req.Collaborators {
		desired[i] = services.DesiredCollaborator{UserID: entry.UserID, Role: entry.Role}
		if entry.Role == models.RoleAdmin {
			hasAdmin = true
		}
	}
	if !hasAdmin {
		respondLastAdmin(c)
		return
	}

	collaborators, err := h.collaboratorService.Reconcile(c.Request.Context(), board.ID, desired)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collaborators": dto.ToCollaboratorDTOs(collaborators),
	})
}

// RemoveCollaborator removes one user from a board
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	err := h.collaboratorService.Remove(c.Request.Context(), board.ID, c.Param("user_id"))
	if errors.Is(err, services.ErrLastAdmin) {
		respondLastAdmin(c)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
