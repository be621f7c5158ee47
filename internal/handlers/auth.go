package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/constants"
	"github.com/yukikurage/standup-api/internal/dto"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/services"
)

// AuthHandler exchanges provider access tokens for sessions.
type AuthHandler struct {
	verifier middleware.TokenVerifier
	profiles services.ProfileLookup
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(verifier middleware.TokenVerifier, profiles services.ProfileLookup) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		profiles: profiles,
	}
}

// CreateSession verifies the bearer access token and starts a session.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	type SessionRequest struct {
		AccessToken string `json:"access_token"`
	}

	token := middleware.BearerToken(c)
	if token == "" {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
			apierrors.Unauthorized(c, "Access token required")
			return
		}
		token = req.AccessToken
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid or expired access token"))
		return
	}

	profile, err := h.profiles.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch profile for new session")
		apierrors.UpstreamFailure(c, "Failed to load user profile")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(profile))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	profile, err := h.profiles.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch profile")
		apierrors.UpstreamFailure(c, "Failed to load user profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(profile))
}
