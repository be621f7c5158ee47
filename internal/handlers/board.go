package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/dto"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/services"
)

// BoardHandler serves board CRUD.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// CreateBoard creates a board owned by the caller
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateBoardRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.Create(c.Request.Context(), services.CreateBoardInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns all boards the caller collaborates on
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.boardService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boards": dto.ToBoardWithRoleDTOs(memberships),
	})
}

// GetBoard returns the board loaded by RequireBoardAccess
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	member, ok2 := middleware.GetCollaborator(c)
	if !ok || !ok2 {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.BoardWithRoleDTO{
		BoardDTO: dto.ToBoardDTO(board),
		Role:     member.Role,
	})
}

// UpdateBoard changes a board's name or description
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type UpdateBoardRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boardService.Update(c.Request.Context(), board.ID, services.UpdateBoardInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*updated))
}

// DeleteBoard removes a board and everything attached to it
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	if err := h.boardService.Delete(c.Request.Context(), board.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
