package handler

import (
	groupapp "github.com/groupdiary/backend/internal/application/group"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GroupHandler handles group management HTTP requests
type GroupHandler struct {
	BaseHandler
	groupService *groupapp.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *groupapp.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// Create creates a group with the caller as its first member
func (h *GroupHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req groupapp.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.groupService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns the caller's groups, starred first
func (h *GroupHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groups, err := h.groupService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// Get returns one group with its member list
func (h *GroupHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	resp, err := h.groupService.Get(c.Request.Context(), userID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update edits a group's name, note, and image
func (h *GroupHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req groupapp.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.groupService.Update(c.Request.Context(), userID, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a group
func (h *GroupHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), userID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Join enrolls the caller in a group
func (h *GroupHandler) Join(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.groupService.Join(c.Request.Context(), userID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Leave removes the caller from a group
func (h *GroupHandler) Leave(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.groupService.Leave(c.Request.Context(), userID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ToggleStar flips the caller's star on a group
func (h *GroupHandler) ToggleStar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	resp, err := h.groupService.ToggleStar(c.Request.Context(), userID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Invite invites another user into a group
func (h *GroupHandler) Invite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req groupapp.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.groupService.Invite(c.Request.Context(), userID, groupID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListInvites returns the caller's pending invites
func (h *GroupHandler) ListInvites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invites, err := h.groupService.ListInvites(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invites)
}

// AcceptInvite accepts an invite, joining the group
func (h *GroupHandler) AcceptInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invite ID")
		return
	}

	if err := h.groupService.AcceptInvite(c.Request.Context(), userID, inviteID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RejectInvite declines an invite
func (h *GroupHandler) RejectInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invite ID")
		return
	}

	if err := h.groupService.RejectInvite(c.Request.Context(), userID, inviteID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers group routes
func (h *GroupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	{
		groups.POST("", h.Create)
		groups.GET("", h.List)
		groups.GET("/:id", h.Get)
		groups.PUT("/:id", h.Update)
		groups.DELETE("/:id", h.Delete)
		groups.POST("/:id/join", h.Join)
		groups.POST("/:id/leave", h.Leave)
		groups.POST("/:id/star", h.ToggleStar)
		groups.POST("/:id/invites", h.Invite)
	}
	invites := rg.Group("/invites")
	{
		invites.GET("", h.ListInvites)
		invites.POST("/:id/accept", h.AcceptInvite)
		invites.POST("/:id/reject", h.RejectInvite)
	}
}
