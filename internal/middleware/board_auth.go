package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/constants"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/services"
)

// BoardResolver loads a board by ID.
type BoardResolver interface {
	Get(ctx context.Context, boardID uint64) (*models.Board, error)
}

// MembershipResolver loads a user's membership on a board.
type MembershipResolver interface {
	Find(ctx context.Context, boardID uint64, userID string) (*models.Collaborator, error)
}

// RequireBoardAccess checks that the caller collaborates on the board named
// by the :id parameter
func RequireBoardAccess(boards BoardResolver, members MembershipResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		board, err := boards.Get(c.Request.Context(), boardID)
		if err != nil {
			abortLookup(c, err)
			return
		}

		member, err := members.Find(c.Request.Context(), boardID, userID)
		if err != nil {
			// Return 404 instead of 403 to avoid leaking board existence
			abortLookup(c, err)
			return
		}

		c.Set(constants.ContextKeyBoard, *board)
		c.Set(constants.ContextKeyCollaborator, *member)
		c.Next()
	}
}

func abortLookup(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		apierrors.NotFound(c, "Board not found")
	} else {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("board authorization lookup failed")
		apierrors.InternalError(c, "")
	}
	c.Abort()
}

// RequireBoardAdmin checks that the caller is an admin of the board. It must
// run after RequireBoardAccess.
func RequireBoardAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetCollaborator(c)
		if !ok {
			apierrors.Forbidden(c, "Board access required")
			c.Abort()
			return
		}

		if member.Role != models.RoleAdmin {
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.NewAPIError(
				apierrors.ErrCodeInsufficientPermissions,
				"Only board admins can perform this action",
			))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetBoard returns the board stored by RequireBoardAccess.
func GetBoard(c *gin.Context) (models.Board, bool) {
	v, exists := c.Get(constants.ContextKeyBoard)
	if !exists {
		return models.Board{}, false
	}
	board, ok := v.(models.Board)
	return board, ok
}

// GetCollaborator returns the caller's membership stored by RequireBoardAccess.
func GetCollaborator(c *gin.Context) (models.Collaborator, bool) {
	v, exists := c.Get(constants.ContextKeyCollaborator)
	if !exists {
		return models.Collaborator{}, false
	}
	member, ok := v.(models.Collaborator)
	return member, ok
}
