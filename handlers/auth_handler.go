package handlers

import (
	"errors"
	"net/http"

	"prepwise-backend/config"
	"prepwise-backend/repository"
	"prepwise-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	accountService *service.AccountService
	sessionRepo    repository.SessionRepository
	cfg            *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accountService *service.AccountService, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		sessionRepo:    sessionRepo,
		cfg:            cfg,
	}
}

// SignupRequest represents the request body for registration
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	session, err := h.accountService.Signup(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_TAKEN",
					"message": "An account with this email already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SIGNUP_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	setSessionCookie(c, h.cfg, session.Token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session,
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	session, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid email or password",
			},
		})
		return
	}

	setSessionCookie(c, h.cfg, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// Logout handles POST /api/auth/logout. Always succeeds, even without a
// valid session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.CookieName); err == nil && token != "" {
		_ = h.accountService.Logout(c.Request.Context(), token)
	}
	clearSessionCookie(c, h.cfg)
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me. Returns the session's user, or a null
// user when unauthenticated rather than a 401.
func (h *AuthHandler) Me(c *gin.Context) {
	token, err := c.Cookie(h.cfg.CookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": nil},
		})
		return
	}

	session, err := h.sessionRepo.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": nil},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": session},
	})
}

// ChangePasswordRequest represents the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword handles PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID := sessionUserID(c)
	if err := h.accountService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Current password is incorrect",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Password updated"},
	})
}

// DeleteAccountRequest represents the request body for account deletion
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccount handles DELETE /api/auth/account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID := sessionUserID(c)
	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Password is incorrect",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	clearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Account deleted"},
	})
}

// OAuth returns the handler for GET /api/auth/google and
// /api/auth/github. The flow is mocked: no provider round-trip happens,
// a canned account is upserted and a session opened.
func (h *AuthHandler) OAuth(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.accountService.OAuthLogin(c.Request.Context(), provider)
		if err != nil {
			c.Redirect(http.StatusFound, "/auth?error=oauth_failed")
			return
		}

		setSessionCookie(c, h.cfg, session.Token)
		c.Redirect(http.StatusFound, "/dashboard")
	}
}
