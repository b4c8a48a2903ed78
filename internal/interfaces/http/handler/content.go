package handler

import (
	"io"
	"strconv"

	contentapp "github.com/groupdiary/backend/internal/application/content"
	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContentHandler handles diary post HTTP requests
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *contentapp.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// Create publishes a post. Multipart form: groupId, content, latitude,
// longitude, locationName, and image files under "images".
func (h *ContentHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.PostForm("groupId"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	req := contentapp.CreateContentRequest{
		GroupID:      groupID,
		Text:         c.PostForm("content"),
		LocationName: c.PostForm("locationName"),
	}

	if raw := c.PostForm("latitude"); raw != "" {
		req.Latitude, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.BadRequest(c, "Invalid latitude")
			return
		}
	}
	if raw := c.PostForm("longitude"); raw != "" {
		req.Longitude, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.BadRequest(c, "Invalid longitude")
			return
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}

	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			h.BadRequest(c, "Unreadable image upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.BadRequest(c, "Unreadable image upload")
			return
		}
		req.Media = append(req.Media, contentapp.UploadFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	resp, err := h.contentService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns one post, recording a view
func (h *ContentHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	resp, err := h.contentService.Get(c.Request.Context(), contentID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update edits a post. Only the author may edit.
func (h *ContentHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	var req contentapp.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.contentService.Update(c.Request.Context(), contentID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a post. Only the author may delete.
func (h *ContentHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	if err := h.contentService.Delete(c.Request.Context(), contentID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByGroup returns a group's feed
func (h *ContentHandler) ListByGroup(c *gin.Context) {
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

	posts, err := h.contentService.ListByGroup(c.Request.Context(), groupID, userID, shared.DefaultFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, posts)
}

// ListByMap returns posts inside a bounding box across the caller's groups
func (h *ContentHandler) ListByMap(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req contentapp.MapBoundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid bounding box")
		return
	}

	posts, err := h.contentService.ListByMap(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, posts)
}

// ListBookmarked returns the caller's bookmarked posts
func (h *ContentHandler) ListBookmarked(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	posts, err := h.contentService.ListBookmarked(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, posts)
}

// ToggleEmotion applies, replaces, or removes the caller's emotion on a post
func (h *ContentHandler) ToggleEmotion(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	var req contentapp.EmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.contentService.ToggleEmotion(c.Request.Context(), contentID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddComment adds a comment to a post
func (h *ContentHandler) AddComment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	var req contentapp.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.contentService.AddComment(c.Request.Context(), contentID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListComments returns a post's comments, oldest first
func (h *ContentHandler) ListComments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	comments, err := h.contentService.ListComments(c.Request.Context(), contentID, userID, shared.DefaultFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comments)
}

// DeleteComment soft-deletes a comment. Only the author may delete.
func (h *ContentHandler) DeleteComment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.contentService.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ToggleCommentLike flips the caller's like on a comment
func (h *ContentHandler) ToggleCommentLike(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid comment ID")
		return
	}

	resp, err := h.contentService.ToggleCommentLike(c.Request.Context(), commentID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ToggleBookmark flips the caller's bookmark on a post
func (h *ContentHandler) ToggleBookmark(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid content ID")
		return
	}

	resp, err := h.contentService.ToggleBookmark(c.Request.Context(), contentID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers content routes
func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contents := rg.Group("/contents")
	{
		contents.POST("", h.Create)
		contents.GET("/map", h.ListByMap)
		contents.GET("/bookmarks", h.ListBookmarked)
		contents.GET("/:id", h.Get)
		contents.PUT("/:id", h.Update)
		contents.DELETE("/:id", h.Delete)
		contents.POST("/:id/emotions", h.ToggleEmotion)
		contents.POST("/:id/comments", h.AddComment)
		contents.GET("/:id/comments", h.ListComments)
		contents.POST("/:id/bookmark", h.ToggleBookmark)
	}
	comments := rg.Group("/comments")
	{
		comments.DELETE("/:id", h.DeleteComment)
		comments.POST("/:id/like", h.ToggleCommentLike)
	}
	rg.GET("/groups/:id/contents", h.ListByGroup)
}
