package handlers

import (
	"net/http"

	"prepwise-backend/config"
	"prepwise-backend/models"
	"prepwise-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookieMaxAge matches the server-side session lifetime
const sessionCookieMaxAge = models.SessionTTL

const (
	contextUserIDKey = "userID"
	contextEmailKey  = "userEmail"
	contextTokenKey  = "sessionToken"
)

// RequireSession resolves the session cookie and aborts with 401 when it
// is missing, unknown, or expired. On success the user's ID and email are
// placed in the gin context.
func RequireSession(cfg *config.Config, sessions repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		session, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired session",
				},
			})
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Set(contextEmailKey, session.Email)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// sessionUserID reads the authenticated user from the gin context. Only
// valid behind RequireSession.
func sessionUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(contextUserIDKey)
	userID, _ := id.(uuid.UUID)
	return userID
}

func cookieSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// setSessionCookie writes the HTTP-only session cookie
func setSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(cookieSameSite(cfg.CookieSameSite))
	c.SetCookie(cfg.CookieName, token, int(sessionCookieMaxAge.Seconds()), "/", "", cfg.CookieSecure, true)
}

// clearSessionCookie expires the session cookie
func clearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(cookieSameSite(cfg.CookieSameSite))
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.CookieSecure, true)
}
