package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Emotion is a per-user reaction on a post. A user holds at most one emotion
// per post; posting the same kind again removes it, a different kind replaces
// it.
type Emotion struct {
	shared.BaseEntity
	ContentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_emotion_content_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_emotion_content_user,priority:2"`
	Kind      int       `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Emotion) TableName() string {
	return "emotions"
}

// NewEmotion creates an active emotion
func NewEmotion(contentID, userID uuid.UUID, kind int) *Emotion {
	return &Emotion{
		BaseEntity: shared.NewBaseEntity(),
		ContentID:  contentID,
		UserID:     userID,
		Kind:       kind,
		Active:     true,
	}
}

// Apply toggles or replaces the emotion with the given kind.
// Returns true when the emotion remains active afterwards.
func (e *Emotion) Apply(kind int) bool {
	switch {
	case e.Active && e.Kind == kind:
		e.Active = false
	case e.Active:
		e.Kind = kind
	default:
		e.Kind = kind
		e.Active = true
	}
	e.UpdatedAt = time.Now()
	return e.Active
}

// Comment is a user comment on a post
type Comment struct {
	shared.BaseEntity
	ContentID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:text;not null"`
	Deleted   bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// NewComment creates a comment on a post
func NewComment(contentID, userID uuid.UUID, text string) (*Comment, error) {
	if text == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment text cannot be empty")
	}
	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		ContentID:  contentID,
		UserID:     userID,
		Text:       text,
	}, nil
}

// MarkDeleted soft-deletes the comment
func (c *Comment) MarkDeleted() {
	c.Deleted = true
	c.UpdatedAt = time.Now()
}

// CommentLike is a per-user like on a comment, toggled on repeat
type CommentLike struct {
	shared.BaseEntity
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_comment_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_comment_user,priority:2"`
	Active    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CommentLike) TableName() string {
	return "comment_likes"
}

// NewCommentLike creates an active like
func NewCommentLike(commentID, userID uuid.UUID) *CommentLike {
	return &CommentLike{
		BaseEntity: shared.NewBaseEntity(),
		CommentID:  commentID,
		UserID:     userID,
		Active:     true,
	}
}

// Toggle flips the like and returns its new state
func (l *CommentLike) Toggle() bool {
	l.Active = !l.Active
	l.UpdatedAt = time.Now()
	return l.Active
}

// Bookmark marks a post as saved by a user, toggled on repeat
type Bookmark struct {
	shared.BaseEntity
	ContentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_content_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_content_user,priority:2"`
	Active    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Bookmark) TableName() string {
	return "bookmarks"
}

// NewBookmark creates an active bookmark
func NewBookmark(contentID, userID uuid.UUID) *Bookmark {
	return &Bookmark{
		BaseEntity: shared.NewBaseEntity(),
		ContentID:  contentID,
		UserID:     userID,
		Active:     true,
	}
}

// Toggle flips the bookmark and returns its new state
func (b *Bookmark) Toggle() bool {
	b.Active = !b.Active
	b.UpdatedAt = time.Now()
	return b.Active
}
