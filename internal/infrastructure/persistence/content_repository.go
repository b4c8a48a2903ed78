package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupdiary/backend/internal/domain/content"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// GormContentRepository implements content.ContentRepository using GORM.
// Soft-deleted posts are filtered out of every lookup.
type GormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository creates a new GormContentRepository
func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// FindByID finds a post by ID, excluding deleted posts
func (r *GormContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Content, error) {
	var c content.Content
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&c, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByGroup finds a group's posts, newest first
func (r *GormContentRepository) FindByGroup(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]content.Content, error) {
	var posts []content.Content
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("group_id = ? AND deleted = ?", groupID, false).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FindWithinBounds finds posts with a location inside the bounding box,
// restricted to the given groups
func (r *GormContentRepository) FindWithinBounds(ctx context.Context, groupIDs []uuid.UUID, minLat, maxLat, minLon, maxLon float64) ([]content.Content, error) {
	if len(groupIDs) == 0 {
		return []content.Content{}, nil
	}
	var posts []content.Content
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("group_id IN ? AND deleted = ?", groupIDs, false).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLon, maxLon).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByGroup counts a group's posts
func (r *GormContentRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&content.Content{}).
		Where("group_id = ? AND deleted = ?", groupID, false).
		Count(&count).Error
	return count, err
}

// Save creates or updates a post
func (r *GormContentRepository) Save(ctx context.Context, c *content.Content) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(c).Error
}

// Ensure GormContentRepository implements ContentRepository
var _ content.ContentRepository = (*GormContentRepository)(nil)

// GormImageRepository implements content.ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByContent finds a post's images ordered by sort order
func (r *GormImageRepository) FindByContent(ctx context.Context, contentID uuid.UUID) ([]content.Image, error) {
	var images []content.Image
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("sort_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// SaveBatch stores multiple images
func (r *GormImageRepository) SaveBatch(ctx context.Context, images []*content.Image) error {
	if len(images) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).WithContext(ctx).Save(images).Error
}

// DeleteByContent removes all images of a post
func (r *GormImageRepository) DeleteByContent(ctx context.Context, contentID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Delete(&content.Image{}, "content_id = ?", contentID).Error
}

// Ensure GormImageRepository implements ImageRepository
var _ content.ImageRepository = (*GormImageRepository)(nil)

// GormEmotionRepository implements content.EmotionRepository using GORM
type GormEmotionRepository struct {
	db *gorm.DB
}

// NewGormEmotionRepository creates a new GormEmotionRepository
func NewGormEmotionRepository(db *gorm.DB) *GormEmotionRepository {
	return &GormEmotionRepository{db: db}
}

// FindByContentAndUser finds the user's emotion row on a post
func (r *GormEmotionRepository) FindByContentAndUser(ctx context.Context, contentID, userID uuid.UUID) (*content.Emotion, error) {
	var e content.Emotion
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&e, "content_id = ? AND user_id = ?", contentID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindActiveByContent finds all active emotions on a post
func (r *GormEmotionRepository) FindActiveByContent(ctx context.Context, contentID uuid.UUID) ([]content.Emotion, error) {
	var emotions []content.Emotion
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("content_id = ? AND active = ?", contentID, true).
		Find(&emotions).Error
	if err != nil {
		return nil, err
	}
	return emotions, nil
}

// Save creates or updates an emotion
func (r *GormEmotionRepository) Save(ctx context.Context, e *content.Emotion) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(e).Error
}

// Ensure GormEmotionRepository implements EmotionRepository
var _ content.EmotionRepository = (*GormEmotionRepository)(nil)

// GormCommentRepository implements content.CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByID finds a comment by ID, excluding deleted comments
func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Comment, error) {
	var c content.Comment
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&c, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByContent finds a post's comments, oldest first
func (r *GormCommentRepository) FindByContent(ctx context.Context, contentID uuid.UUID, filter shared.Filter) ([]content.Comment, error) {
	var comments []content.Comment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("content_id = ? AND deleted = ?", contentID, false).
		Order("created_at ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Save creates or updates a comment
func (r *GormCommentRepository) Save(ctx context.Context, c *content.Comment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(c).Error
}

// Ensure GormCommentRepository implements CommentRepository
var _ content.CommentRepository = (*GormCommentRepository)(nil)

// GormCommentLikeRepository implements content.CommentLikeRepository using GORM
type GormCommentLikeRepository struct {
	db *gorm.DB
}

// NewGormCommentLikeRepository creates a new GormCommentLikeRepository
func NewGormCommentLikeRepository(db *gorm.DB) *GormCommentLikeRepository {
	return &GormCommentLikeRepository{db: db}
}

// FindByCommentAndUser finds the user's like row on a comment
func (r *GormCommentLikeRepository) FindByCommentAndUser(ctx context.Context, commentID, userID uuid.UUID) (*content.CommentLike, error) {
	var l content.CommentLike
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&l, "comment_id = ? AND user_id = ?", commentID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// CountActiveByComment counts active likes on a comment
func (r *GormCommentLikeRepository) CountActiveByComment(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&content.CommentLike{}).
		Where("comment_id = ? AND active = ?", commentID, true).
		Count(&count).Error
	return count, err
}

// Save creates or updates a like
func (r *GormCommentLikeRepository) Save(ctx context.Context, l *content.CommentLike) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(l).Error
}

// Ensure GormCommentLikeRepository implements CommentLikeRepository
var _ content.CommentLikeRepository = (*GormCommentLikeRepository)(nil)

// GormBookmarkRepository implements content.BookmarkRepository using GORM
type GormBookmarkRepository struct {
	db *gorm.DB
}

// NewGormBookmarkRepository creates a new GormBookmarkRepository
func NewGormBookmarkRepository(db *gorm.DB) *GormBookmarkRepository {
	return &GormBookmarkRepository{db: db}
}

// FindByContentAndUser finds the user's bookmark row on a post
func (r *GormBookmarkRepository) FindByContentAndUser(ctx context.Context, contentID, userID uuid.UUID) (*content.Bookmark, error) {
	var b content.Bookmark
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&b, "content_id = ? AND user_id = ?", contentID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindActiveByUser finds a user's active bookmarks
func (r *GormBookmarkRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]content.Bookmark, error) {
	var bookmarks []content.Bookmark
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Save creates or updates a bookmark
func (r *GormBookmarkRepository) Save(ctx context.Context, b *content.Bookmark) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(b).Error
}

// Ensure GormBookmarkRepository implements BookmarkRepository
var _ content.BookmarkRepository = (*GormBookmarkRepository)(nil)
