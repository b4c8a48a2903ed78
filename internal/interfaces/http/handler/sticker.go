package handler

import (
	stickerapp "github.com/groupdiary/backend/internal/application/sticker"
	"github.com/gin-gonic/gin"
)

// StickerHandler handles sticker catalog HTTP requests
type StickerHandler struct {
	BaseHandler
	stickerService *stickerapp.StickerService
}

// NewStickerHandler creates a new sticker handler
func NewStickerHandler(stickerService *stickerapp.StickerService) *StickerHandler {
	return &StickerHandler{
		stickerService: stickerService,
	}
}

// Catalog returns all registered sticker designs ordered by level
func (h *StickerHandler) Catalog(c *gin.Context) {
	list, err := h.stickerService.Catalog(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// Register adds a sticker design to the catalog
func (h *StickerHandler) Register(c *gin.Context) {
	var req stickerapp.RegisterStickerGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.stickerService.RegisterGroup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// RegisterRoutes registers sticker routes
func (h *StickerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stickers := rg.Group("/stickers")
	{
		stickers.GET("", h.Catalog)
		stickers.POST("", h.Register)
	}
}
