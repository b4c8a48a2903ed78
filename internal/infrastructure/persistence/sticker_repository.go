package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/domain/sticker"
)

// GormStickerGroupRepository implements sticker.GroupRepository using GORM
type GormStickerGroupRepository struct {
	db *gorm.DB
}

// NewGormStickerGroupRepository creates a new GormStickerGroupRepository
func NewGormStickerGroupRepository(db *gorm.DB) *GormStickerGroupRepository {
	return &GormStickerGroupRepository{db: db}
}

// FindByLevel finds the sticker group unlocked at a main level.
// Returns shared.ErrNotFound when the level is not reward-eligible.
func (r *GormStickerGroupRepository) FindByLevel(ctx context.Context, level int) (*sticker.Group, error) {
	var g sticker.Group
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&g, "level = ?", level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindAll lists the whole catalog ordered by level
func (r *GormStickerGroupRepository) FindAll(ctx context.Context) ([]sticker.Group, error) {
	var groups []sticker.Group
	err := dbFrom(ctx, r.db).WithContext(ctx).Order("level ASC").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates a sticker group
func (r *GormStickerGroupRepository) Save(ctx context.Context, g *sticker.Group) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(g).Error
}

// Ensure GormStickerGroupRepository implements GroupRepository
var _ sticker.GroupRepository = (*GormStickerGroupRepository)(nil)

// GormStickerRepository implements sticker.StickerRepository using GORM
type GormStickerRepository struct {
	db *gorm.DB
}

// NewGormStickerRepository creates a new GormStickerRepository
func NewGormStickerRepository(db *gorm.DB) *GormStickerRepository {
	return &GormStickerRepository{db: db}
}

// FindByUser finds all stickers a user has acquired, newest first
func (r *GormStickerRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]sticker.Sticker, error) {
	var stickers []sticker.Sticker
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stickers).Error
	if err != nil {
		return nil, err
	}
	return stickers, nil
}

// Exists checks whether the user already holds the sticker group
func (r *GormStickerRepository) Exists(ctx context.Context, userID, stickerGroupID uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&sticker.Sticker{}).
		Where("user_id = ? AND sticker_group_id = ?", userID, stickerGroupID).
		Count(&count).Error
	return count > 0, err
}

// Save stores an acquired sticker
func (r *GormStickerRepository) Save(ctx context.Context, s *sticker.Sticker) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(s).Error
}

// Ensure GormStickerRepository implements StickerRepository
var _ sticker.StickerRepository = (*GormStickerRepository)(nil)
