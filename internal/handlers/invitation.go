package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/dto"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/services"
)

// InvitationHandler serves the board invitation endpoints.
type InvitationHandler struct {
	invitationService *services.InvitationService
	now               func() time.Time
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		now:               time.Now,
	}
}

// EnsureInvitation returns the board's active invitation, creating one if needed
func (h *InvitationHandler) EnsureInvitation(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	userID, ok2 := middleware.GetUserID(c)
	if !ok || !ok2 {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	invitation, err := h.invitationService.Ensure(c.Request.Context(), board.ID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, h.now()))
}

// RegenerateInvitation retires the active invitation and mints a new one
func (h *InvitationHandler) RegenerateInvitation(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	userID, ok2 := middleware.GetUserID(c)
	if !ok || !ok2 {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type RegenerateRequest struct {
		Role      models.BoardRole `json:"role"`
		ExpiresIn string           `json:"expires_in"`
	}

	req := RegenerateRequest{
		Role:      models.RoleCollaborator,
		ExpiresIn: "7d",
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	invitation, err := h.invitationService.Regenerate(c.Request.Context(), board.ID, userID, req.Role, req.ExpiresIn)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation, h.now()))
}

// UpdateInvitationExpiration moves an invitation's expiry
func (h *InvitationHandler) UpdateInvitationExpiration(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type UpdateExpirationRequest struct {
		ExpiresIn string `json:"expires_in" binding:"required"`
	}

	var req UpdateExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.UpdateExpiration(c.Request.Context(), c.Param("invitation_id"), board.ID, req.ExpiresIn)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, h.now()))
}

// RevokeInvitation revokes the board's pending invitations
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	if err := h.invitationService.RevokeActives(c.Request.Context(), board.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInvitation shows an invitation and its board to a prospective member
func (h *InvitationHandler) GetInvitation(c *gin.Context) {
	invitation, err := h.invitationService.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicInvitationDTO(*invitation, h.now()))
}

// AcceptInvitation enrolls the caller on the invitation's board
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invitation, err := h.invitationService.Accept(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"board_id": invitation.BoardID,
		"role":     invitation.Role,
	})
}
