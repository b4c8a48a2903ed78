package content

import (
	"time"

	"github.com/google/uuid"
)

// CreateContentRequest represents a request to create a diary post
type CreateContentRequest struct {
	GroupID      uuid.UUID
	Text         string
	Latitude     float64
	Longitude    float64
	LocationName string
	Media        []UploadFile
}

// UpdateContentRequest represents a request to edit a diary post
type UpdateContentRequest struct {
	Text         string  `json:"content" binding:"required"`
	Latitude     float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" binding:"min=-180,max=180"`
	LocationName string  `json:"locationName" binding:"max=200"`
}

// UploadFile is an image submitted with a post
type UploadFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// EmotionRequest applies an emotion to a post
type EmotionRequest struct {
	Kind int `json:"emotionStatus" binding:"min=1,max=6"`
}

// CommentRequest adds a comment to a post
type CommentRequest struct {
	Text string `json:"commentNote" binding:"required"`
}

// MapBoundsRequest is a latitude/longitude bounding box for the map feed
type MapBoundsRequest struct {
	StartLatitude  float64 `form:"startLatitude" binding:"min=-90,max=90"`
	StartLongitude float64 `form:"startLongitude" binding:"min=-180,max=180"`
	EndLatitude    float64 `form:"endLatitude" binding:"min=-90,max=90"`
	EndLongitude   float64 `form:"endLongitude" binding:"min=-180,max=180"`
}

// Normalize returns the box as (minLat, maxLat, minLon, maxLon)
func (r MapBoundsRequest) Normalize() (float64, float64, float64, float64) {
	minLat, maxLat := r.StartLatitude, r.EndLatitude
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLon, maxLon := r.StartLongitude, r.EndLongitude
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	return minLat, maxLat, minLon, maxLon
}

// ContentResponse represents a diary post in API responses
type ContentResponse struct {
	ContentID       uuid.UUID `json:"contentId"`
	GroupID         uuid.UUID `json:"groupId"`
	AuthorID        uuid.UUID `json:"userId"`
	AuthorName      string    `json:"userName"`
	AuthorImageURL  string    `json:"userImgUrl"`
	Text            string    `json:"content"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	LocationName    string    `json:"locationName"`
	ImageURLs       []string  `json:"imageUrls"`
	Views           int64     `json:"views"`
	EmotionCount    int       `json:"emotionCount"`
	MyEmotion       int       `json:"myEmotionStatus"` // 0 when none
	CommentCount    int64     `json:"commentCount"`
	BookmarkedByMe  bool      `json:"isBookmarked"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EmotionResponse reports the emotion state after a toggle
type EmotionResponse struct {
	ContentID uuid.UUID `json:"contentId"`
	Kind      int       `json:"emotionStatus"`
	Active    bool      `json:"isActive"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	CommentID      uuid.UUID `json:"commentId"`
	ContentID      uuid.UUID `json:"contentId"`
	AuthorID       uuid.UUID `json:"userId"`
	AuthorName     string    `json:"userName"`
	AuthorImageURL string    `json:"userImgUrl"`
	Text           string    `json:"commentNote"`
	LikeCount      int64     `json:"likeCount"`
	LikedByMe      bool      `json:"isLiked"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToggleResponse reports a like or bookmark toggle result
type ToggleResponse struct {
	TargetID uuid.UUID `json:"targetId"`
	Active   bool      `json:"isActive"`
}
