package sticker

import (
	"time"

	"github.com/google/uuid"

	"github.com/groupdiary/backend/internal/domain/sticker"
)

// RegisterStickerGroupRequest adds a sticker design to the catalog
type RegisterStickerGroupRequest struct {
	Name         string `json:"stickerName" binding:"required"`
	Level        int    `json:"stickerLevel" binding:"required,min=1"`
	ThumbnailURL string `json:"stickerUrl" binding:"required"`
}

// StickerGroupResponse is a catalog entry
type StickerGroupResponse struct {
	ID           uuid.UUID `json:"stickerGroupId"`
	Name         string    `json:"stickerName"`
	Level        int       `json:"stickerLevel"`
	ThumbnailURL string    `json:"stickerUrl"`
}

// UserStickerResponse is a sticker a user has earned
type UserStickerResponse struct {
	StickerID    uuid.UUID `json:"stickerId"`
	GroupID      uuid.UUID `json:"stickerGroupId"`
	Name         string    `json:"stickerName"`
	Level        int       `json:"stickerLevel"`
	ThumbnailURL string    `json:"stickerUrl"`
	AcquiredAt   time.Time `json:"acquiredAt"`
}

func toStickerGroupResponse(g *sticker.Group) *StickerGroupResponse {
	return &StickerGroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Level:        g.Level,
		ThumbnailURL: g.ThumbnailURL,
	}
}
