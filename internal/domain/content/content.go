package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Domain errors for the content context
var (
	ErrContentNotFound = shared.NewDomainError("CONTENT_NOT_FOUND", "Content does not exist")
	ErrNotContentOwner = shared.NewDomainError("NOT_CONTENT_OWNER", "Only the author may modify this content")
	ErrCommentNotFound = shared.NewDomainError("COMMENT_NOT_FOUND", "Comment does not exist")
)

// Content represents a diary post inside a group, optionally carrying
// geolocation and attached images.
type Content struct {
	shared.BaseEntity
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	GroupID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Text         string    `gorm:"type:text;not null"`
	Latitude     float64   `gorm:"index"`
	Longitude    float64   `gorm:"index"`
	LocationName string    `gorm:"type:varchar(200)"`
	Views        int64     `gorm:"not null;default:0"`
	Deleted      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Content) TableName() string {
	return "contents"
}

// NewContent creates a post authored by the user in the group
func NewContent(userID, groupID uuid.UUID, text string, lat, lon float64, locationName string) (*Content, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content text cannot be empty")
	}

	return &Content{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		GroupID:      groupID,
		Text:         text,
		Latitude:     lat,
		Longitude:    lon,
		LocationName: locationName,
	}, nil
}

// Update replaces the post's text and location
func (c *Content) Update(text string, lat, lon float64, locationName string) error {
	if strings.TrimSpace(text) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content text cannot be empty")
	}
	c.Text = text
	c.Latitude = lat
	c.Longitude = lon
	c.LocationName = locationName
	c.UpdatedAt = time.Now()
	return nil
}

// RecordView increments the view counter
func (c *Content) RecordView() {
	c.Views++
}

// MarkDeleted soft-deletes the post
func (c *Content) MarkDeleted() {
	c.Deleted = true
	c.UpdatedAt = time.Now()
}

// IsAuthoredBy returns true if the user wrote the post
func (c *Content) IsAuthoredBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// Image is an uploaded image attached to a post
type Image struct {
	shared.BaseEntity
	ContentID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Image) TableName() string {
	return "content_images"
}

// NewImage creates an image record for a post
func NewImage(contentID uuid.UUID, url string, sortOrder int) *Image {
	return &Image{
		BaseEntity: shared.NewBaseEntity(),
		ContentID:  contentID,
		URL:        url,
		SortOrder:  sortOrder,
	}
}
