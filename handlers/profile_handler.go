package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"prepwise-backend/models"
	"prepwise-backend/repository"
	"prepwise-backend/service"
	"prepwise-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAvatarSize caps profile photo uploads at 2MB
const maxAvatarSize = 2 << 20

// ProfileHandler handles HTTP requests for profiles, privacy settings,
// and data export
type ProfileHandler struct {
	profileRepo    repository.ProfileRepository
	accountService *service.AccountService
	storage        storage.Storage
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileRepo repository.ProfileRepository, accountService *service.AccountService, store storage.Storage) *ProfileHandler {
	return &ProfileHandler{
		profileRepo:    profileRepo,
		accountService: accountService,
		storage:        store,
	}
}

// GetProfile handles GET /api/profile/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfileRequest represents the request body for profile updates.
// Pointer fields distinguish omitted from explicitly cleared values.
type UpdateProfileRequest struct {
	FullName                *string                `json:"full_name"`
	AvatarURL               *string                `json:"avatar_url"`
	Company                 *string                `json:"company"`
	Role                    *string                `json:"role"`
	ExperienceLevel         *string                `json:"experience_level"`
	Bio                     *string                `json:"bio"`
	SkillLevel              *string                `json:"skill_level"`
	PreferredIndustries     []string               `json:"preferred_industries"`
	NotificationPreferences map[string]interface{} `json:"notification_preferences"`
}

// UpdateProfile handles PUT /api/profile/:id. Users can only update
// their own profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	if id != sessionUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Cannot update another user's profile",
			},
		})
		return
	}

	var req UpdateProfileRequest
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

	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.Company != nil {
		profile.Company = req.Company
	}
	if req.Role != nil {
		profile.Role = req.Role
	}
	if req.ExperienceLevel != nil {
		profile.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.SkillLevel != nil {
		level := models.SkillLevel(*req.SkillLevel)
		switch level {
		case models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced:
			profile.SkillLevel = level
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SKILL_LEVEL",
					"message": "skill_level must be beginner, intermediate, or advanced",
				},
			})
			return
		}
	}
	if req.PreferredIndustries != nil {
		profile.PreferredIndustries = req.PreferredIndustries
	}
	if req.NotificationPreferences != nil {
		profile.NotificationPreferences = models.NotificationPreferences(req.NotificationPreferences)
	}

	if err := h.profileRepo.Update(c.Request.Context(), profile); err != nil {
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
		"data":    profile,
	})
}

// UploadPhoto handles POST /api/profile/:id/photo. Accepts a multipart
// form with an "avatar" image file up to 2MB.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	if id != sessionUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Cannot update another user's photo",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "avatar file is required",
			},
		})
		return
	}

	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("avatar must be %d bytes or smaller", maxAvatarSize),
			},
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "avatar must be an image",
			},
		})
		return
	}

	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	avatarURL, err := h.storage.UploadAvatar(c.Request.Context(), id, fileHeader.Filename, contentType, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	profile.AvatarURL = &avatarURL
	if err := h.profileRepo.Update(c.Request.Context(), profile); err != nil {
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
		"data":    gin.H{"avatar_url": avatarURL},
	})
}

// Privacy settings live in the profile's preference map under these
// keys. Defaults apply when a user has never saved them.
const (
	privacyShareDataKey = "share_data"
	privacyRetentionKey = "data_retention_months"
)

// GetPrivacy handles GET /api/privacy
func (h *ProfileHandler) GetPrivacy(c *gin.Context) {
	userID := sessionUserID(c)
	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	shareData := true
	if v, ok := profile.NotificationPreferences[privacyShareDataKey].(bool); ok {
		shareData = v
	}
	retentionMonths := 12
	if v, ok := profile.NotificationPreferences[privacyRetentionKey].(float64); ok {
		retentionMonths = int(v)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"share_data":            shareData,
			"data_retention_months": retentionMonths,
		},
	})
}

// UpdatePrivacyRequest represents the request body for privacy updates
type UpdatePrivacyRequest struct {
	ShareData           *bool `json:"share_data"`
	DataRetentionMonths *int  `json:"data_retention_months"`
}

// UpdatePrivacy handles PUT /api/privacy
func (h *ProfileHandler) UpdatePrivacy(c *gin.Context) {
	var req UpdatePrivacyRequest
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
	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	if profile.NotificationPreferences == nil {
		profile.NotificationPreferences = models.NotificationPreferences{}
	}
	if req.ShareData != nil {
		profile.NotificationPreferences[privacyShareDataKey] = *req.ShareData
	}
	if req.DataRetentionMonths != nil {
		profile.NotificationPreferences[privacyRetentionKey] = float64(*req.DataRetentionMonths)
	}

	if err := h.profileRepo.Update(c.Request.Context(), profile); err != nil {
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
		"data":    gin.H{"message": "Privacy settings updated"},
	})
}

// ExportData handles GET /api/account/export. Streams the user's full
// data dump as a JSON attachment.
func (h *ProfileHandler) ExportData(c *gin.Context) {
	userID := sessionUserID(c)
	data, err := h.accountService.Export(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	filename := fmt.Sprintf("prepwise-export-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, data)
}
