package sticker

import (
	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Domain errors for the sticker context
var (
	ErrStickerNotFound = shared.NewDomainError("STICKER_NOT_FOUND", "Sticker does not exist")
)

// Group is a catalog entry unlocked at a specific main level. A main level is
// reward-eligible iff a sticker group exists for it.
type Group struct {
	shared.BaseEntity
	Level        int    `gorm:"not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	ThumbnailURL string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "sticker_groups"
}

// NewGroup creates a sticker group unlocked at the given level
func NewGroup(level int, name, thumbnailURL string) (*Group, error) {
	if level < 1 {
		return nil, shared.NewDomainError("INVALID_STICKER_LEVEL", "Sticker level must be positive")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STICKER_NAME", "Sticker group name cannot be empty")
	}
	return &Group{
		BaseEntity:   shared.NewBaseEntity(),
		Level:        level,
		Name:         name,
		ThumbnailURL: thumbnailURL,
	}, nil
}

// Sticker records a user's acquisition of a sticker group
type Sticker struct {
	shared.BaseEntity
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sticker_user_group,priority:1"`
	StickerGroupID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sticker_user_group,priority:2"`
}

// TableName returns the table name for GORM
func (Sticker) TableName() string {
	return "stickers"
}

// NewSticker records that the user acquired the sticker group
func NewSticker(userID, stickerGroupID uuid.UUID) *Sticker {
	return &Sticker{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		StickerGroupID: stickerGroupID,
	}
}
