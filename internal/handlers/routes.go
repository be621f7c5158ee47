package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/middleware"
)

// Handlers bundles every API handler.
type Handlers struct {
	Auth         *AuthHandler
	Board        *BoardHandler
	Collaborator *CollaboratorHandler
	Invitation   *InvitationHandler
	Standup      *StandupHandler
}

// RouteConfig holds the middleware the API routes depend on.
type RouteConfig struct {
	RequireAuth     gin.HandlerFunc
	InvitationLimit gin.HandlerFunc // throttles the public token endpoints
	Boards          middleware.BoardResolver
	Members         middleware.MembershipResolver
}

// RegisterRoutes mounts the API under api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, cfg RouteConfig) {
	boardAccess := middleware.RequireBoardAccess(cfg.Boards, cfg.Members)
	boardAdmin := middleware.RequireBoardAdmin()

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/session", h.Auth.CreateSession)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", cfg.RequireAuth, h.Auth.GetCurrentUser)
	}

	// Board routes (protected)
	boards := api.Group("/boards")
	boards.Use(cfg.RequireAuth)
	{
		boards.POST("", h.Board.CreateBoard)
		boards.GET("", h.Board.ListBoards)

		board := boards.Group("/:id", boardAccess)
		{
			board.GET("", h.Board.GetBoard)
			board.PATCH("", boardAdmin, h.Board.UpdateBoard)
			board.DELETE("", boardAdmin, h.Board.DeleteBoard)

			board.GET("/collaborators", h.Collaborator.ListCollaborators)
			board.PUT("/collaborators", boardAdmin, h.Collaborator.ReplaceCollaborators)
			board.DELETE("/collaborators/:user_id", boardAdmin, h.Collaborator.RemoveCollaborator)

			board.GET("/invitation", boardAdmin, h.Invitation.EnsureInvitation)
			board.POST("/invitation/regenerate", boardAdmin, h.Invitation.RegenerateInvitation)
			board.DELETE("/invitation", boardAdmin, h.Invitation.RevokeInvitation)
			board.PATCH("/invitations/:invitation_id", boardAdmin, h.Invitation.UpdateInvitationExpiration)

			board.POST("/standups", h.Standup.SubmitStandup)
			board.GET("/standups", h.Standup.ListStandups)
			board.POST("/standups/digest", h.Standup.DigestStandups)
		}
	}

	// Invitation token routes; lookup is public so invitees can see the board
	// before signing in
	invitations := api.Group("/invitations/:token", cfg.InvitationLimit)
	{
		invitations.GET("", h.Invitation.GetInvitation)
		invitations.POST("/accept", cfg.RequireAuth, h.Invitation.AcceptInvitation)
	}
}
