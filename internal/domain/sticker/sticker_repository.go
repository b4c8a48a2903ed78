package sticker

import (
	"context"

	"github.com/google/uuid"
)

// GroupRepository defines the interface for sticker catalog persistence
type GroupRepository interface {
	// FindByLevel finds the sticker group unlocked at a main level.
	// Returns shared.ErrNotFound when the level is not reward-eligible.
	FindByLevel(ctx context.Context, level int) (*Group, error)

	// FindAll lists the whole catalog ordered by level
	FindAll(ctx context.Context) ([]Group, error)

	// Save creates or updates a sticker group
	Save(ctx context.Context, g *Group) error
}

// StickerRepository defines the interface for acquired sticker persistence
type StickerRepository interface {
	// FindByUser finds all stickers a user has acquired
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Sticker, error)

	// Exists checks whether the user already holds the sticker group
	Exists(ctx context.Context, userID, stickerGroupID uuid.UUID) (bool, error)

	// Save stores an acquired sticker
	Save(ctx context.Context, s *Sticker) error
}
