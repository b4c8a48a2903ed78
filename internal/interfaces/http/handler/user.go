package handler

import (
	identityapp "github.com/groupdiary/backend/internal/application/identity"
	stickerapp "github.com/groupdiary/backend/internal/application/sticker"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	BaseHandler
	userService    *identityapp.UserService
	stickerService *stickerapp.StickerService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService, stickerService *stickerapp.StickerService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		stickerService: stickerService,
	}
}

// UpdateProfileRequest is the profile update payload
type UpdateProfileRequest struct {
	Nickname        string `json:"userName" binding:"required,max=50"`
	ProfileImageURL string `json:"userImgUrl"`
}

// Me returns the caller's profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*info))
}

// UpdateMe updates the caller's nickname and profile image
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.userService.UpdateProfile(c.Request.Context(), identityapp.UpdateProfileInput{
		UserID:          userID,
		Nickname:        req.Nickname,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*info))
}

// DeleteMe removes the caller's account
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Stickers returns the stickers the caller has earned
func (h *UserHandler) Stickers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	list, err := h.stickerService.UserStickers(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateMe)
		users.DELETE("/me", h.DeleteMe)
		users.GET("/stickers", h.Stickers)
	}
}
