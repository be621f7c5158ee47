package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/standup-api/internal/constants"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
)

// TokenVerifier validates an access token and returns the user ID it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth authenticates the caller via the session cookie or, failing
// that, an "Authorization: Bearer" access token.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(constants.ContextKeyUserID).(string); ok && userID != "" {
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		token := BearerToken(c)
		if token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid or expired access token"))
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	v, ok := userID.(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
