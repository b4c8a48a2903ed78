package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// ContentRepository defines the interface for post persistence.
// Soft-deleted posts are excluded from every lookup.
type ContentRepository interface {
	// FindByID finds a post by ID, excluding deleted posts
	FindByID(ctx context.Context, id uuid.UUID) (*Content, error)

	// FindByGroup finds a group's posts, newest first
	FindByGroup(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Content, error)

	// FindWithinBounds finds posts with a location inside the bounding box,
	// restricted to the given groups
	FindWithinBounds(ctx context.Context, groupIDs []uuid.UUID, minLat, maxLat, minLon, maxLon float64) ([]Content, error)

	// CountByGroup counts a group's posts
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)

	// Save creates or updates a post
	Save(ctx context.Context, c *Content) error
}

// ImageRepository defines the interface for content image persistence
type ImageRepository interface {
	// FindByContent finds a post's images ordered by sort order
	FindByContent(ctx context.Context, contentID uuid.UUID) ([]Image, error)

	// SaveBatch stores multiple images
	SaveBatch(ctx context.Context, images []*Image) error

	// DeleteByContent removes all images of a post
	DeleteByContent(ctx context.Context, contentID uuid.UUID) error
}

// EmotionRepository defines the interface for emotion persistence
type EmotionRepository interface {
	// FindByContentAndUser finds the user's emotion row on a post
	FindByContentAndUser(ctx context.Context, contentID, userID uuid.UUID) (*Emotion, error)

	// FindActiveByContent finds all active emotions on a post
	FindActiveByContent(ctx context.Context, contentID uuid.UUID) ([]Emotion, error)

	// Save creates or updates an emotion
	Save(ctx context.Context, e *Emotion) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// FindByID finds a comment by ID, excluding deleted comments
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// FindByContent finds a post's comments, oldest first
	FindByContent(ctx context.Context, contentID uuid.UUID, filter shared.Filter) ([]Comment, error)

	// Save creates or updates a comment
	Save(ctx context.Context, c *Comment) error
}

// CommentLikeRepository defines the interface for comment like persistence
type CommentLikeRepository interface {
	// FindByCommentAndUser finds the user's like row on a comment
	FindByCommentAndUser(ctx context.Context, commentID, userID uuid.UUID) (*CommentLike, error)

	// CountActiveByComment counts active likes on a comment
	CountActiveByComment(ctx context.Context, commentID uuid.UUID) (int64, error)

	// Save creates or updates a like
	Save(ctx context.Context, l *CommentLike) error
}

// BookmarkRepository defines the interface for bookmark persistence
type BookmarkRepository interface {
	// FindByContentAndUser finds the user's bookmark row on a post
	FindByContentAndUser(ctx context.Context, contentID, userID uuid.UUID) (*Bookmark, error)

	// FindActiveByUser finds a user's active bookmarks
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]Bookmark, error)

	// Save creates or updates a bookmark
	Save(ctx context.Context, b *Bookmark) error
}
