package handler

import (
	"strconv"

	missionapp "github.com/groupdiary/backend/internal/application/mission"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MissionHandler handles mission HTTP requests
type MissionHandler struct {
	BaseHandler
	missionService *missionapp.MissionService
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(missionService *missionapp.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// Create creates a mission and assigns it to every group member
func (h *MissionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req missionapp.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.missionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Delete deletes a mission. Only its creator may delete.
func (h *MissionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mission ID")
		return
	}

	if err := h.missionService.Delete(c.Request.Context(), userID, missionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns one mission with the caller's progress
func (h *MissionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mission ID")
		return
	}

	resp, err := h.missionService.Get(c.Request.Context(), userID, missionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns the caller's missions filtered by status code (0 = all)
func (h *MissionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	statusCode := 0
	if raw := c.Query("status"); raw != "" {
		statusCode, err = strconv.Atoi(raw)
		if err != nil || statusCode < 0 || statusCode > 3 {
			h.BadRequest(c, "status must be between 0 and 3")
			return
		}
	}

	missions, err := h.missionService.ListByStatus(c.Request.Context(), userID, statusCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, missions)
}

// ListByMap returns the caller's missions inside a bounding box
func (h *MissionHandler) ListByMap(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req missionapp.MapBoundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid bounding box")
		return
	}

	missions, err := h.missionService.ListByMap(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, missions)
}

// ListCompleted returns the caller's completed missions
func (h *MissionHandler) ListCompleted(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	missions, err := h.missionService.ListCompleted(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, missions)
}

// ListByGroup returns a group's visible missions, capped at four
func (h *MissionHandler) ListByGroup(c *gin.Context) {
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

	missions, err := h.missionService.ListByGroup(c.Request.Context(), userID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, missions)
}

// CheckLocation verifies the caller is within range of the mission location
func (h *MissionHandler) CheckLocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req missionapp.CheckLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.missionService.CheckLocation(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CheckContent verifies the mission with a photo diary post. Multipart form:
// missionId, content, and one or more files under "images".
func (h *MissionHandler) CheckContent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	missionID, err := uuid.Parse(c.PostForm("missionId"))
	if err != nil {
		h.BadRequest(c, "Invalid mission ID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}

	req := missionapp.CheckContentRequest{
		MissionID: missionID,
		Text:      c.PostForm("content"),
	}

	files := form.File["images"]
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.BadRequest(c, "Unreadable image upload")
			return
		}
		defer f.Close()
		req.Media = append(req.Media, missionapp.MediaFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	resp, err := h.missionService.CheckContent(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers mission routes
func (h *MissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	missions := rg.Group("/missions")
	{
		missions.POST("", h.Create)
		missions.GET("", h.List)
		missions.GET("/map", h.ListByMap)
		missions.GET("/complete", h.ListCompleted)
		missions.GET("/:id", h.Get)
		missions.DELETE("/:id", h.Delete)
		missions.POST("/check/location", h.CheckLocation)
		missions.POST("/check/content", h.CheckContent)
	}
	rg.GET("/groups/:id/missions", h.ListByGroup)
}
