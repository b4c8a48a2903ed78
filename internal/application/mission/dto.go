package mission

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/groupdiary/backend/internal/domain/mission"
)

// missionDateLayout is the calendar date format used on the wire
const missionDateLayout = "2006.01.02"

// unboundedEndDateLabel is shown for missions without a configured period
const unboundedEndDateLabel = "ing"

// CreateMissionRequest represents a request to create a mission
type CreateMissionRequest struct {
	GroupID         uuid.UUID `json:"groupId" binding:"required"`
	Name            string    `json:"missionName" binding:"required,max=100"`
	Note            string    `json:"missionNote" binding:"max=500"`
	ExistPeriod     bool      `json:"existPeriod"`
	StartDate       string    `json:"missionStartDate"` // yyyy.MM.dd, required when ExistPeriod
	EndDate         string    `json:"missionEndDate"`   // yyyy.MM.dd, required when ExistPeriod
	LocationName    string    `json:"missionLocationName" binding:"max=200"`
	LocationAddress string    `json:"missionLocationAddress" binding:"max=300"`
	Latitude        float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude       float64   `json:"longitude" binding:"min=-180,max=180"`
	Color           int       `json:"missionColor" binding:"min=0"`
}

// CheckLocationRequest represents a location verification attempt
type CheckLocationRequest struct {
	MissionID uuid.UUID `json:"missionId" binding:"required"`
	GroupID   uuid.UUID `json:"groupId" binding:"required"`
	Latitude  float64   `json:"currentLatitude" binding:"min=-90,max=90"`
	Longitude float64   `json:"currentLongitude" binding:"min=-180,max=180"`
}

// CheckLocationResponse reports the measured distance and the assignment's
// progress flags after the attempt
type CheckLocationResponse struct {
	MissionID     uuid.UUID `json:"missionId"`
	Distance      int       `json:"distance"`
	LocationCheck bool      `json:"locationCheck"`
	ContentCheck  bool      `json:"contentCheck"`
	IsComplete    bool      `json:"isComplete"`
}

// MediaFile is an uploaded photo attached to a content verification
type MediaFile struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CheckContentRequest represents a content verification attempt
type CheckContentRequest struct {
	MissionID uuid.UUID
	Text      string
	Media     []MediaFile
}

// CheckContentResponse reports completion and any level/sticker changes
type CheckContentResponse struct {
	MissionID     uuid.UUID `json:"missionId"`
	LocationCheck bool      `json:"locationCheck"`
	ContentCheck  bool      `json:"contentCheck"`
	IsComplete    bool      `json:"isComplete"`
	MainLevel     int       `json:"mainLevel"`
	SubLevel      int       `json:"subLevel"`
	GotNewSticker  bool       `json:"isGetNewSticker"`
	StickerGroupID *uuid.UUID `json:"newStickerGroupId,omitempty"`
	StickerName    string     `json:"newStickerName,omitempty"`
}

// MapBoundsRequest is a latitude/longitude bounding box. The corners may
// arrive in any order; Normalize sorts them.
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

// AssignmentInfo is the requesting user's progress on a mission
type AssignmentInfo struct {
	UserID        uuid.UUID `json:"userId"`
	UserName      string    `json:"userName"`
	MissionID     uuid.UUID `json:"missionId"`
	LocationCheck bool      `json:"locationCheck"`
	ContentCheck  bool      `json:"contentCheck"`
	IsComplete    bool      `json:"isComplete"`
}

// MissionResponse represents a mission in API responses
type MissionResponse struct {
	MissionID       uuid.UUID       `json:"missionId"`
	Name            string          `json:"missionName"`
	Note            string          `json:"missionNote"`
	CreatorID       uuid.UUID       `json:"createUserId"`
	CreatorName     string          `json:"createUserName"`
	CreatorImageURL string          `json:"createUserImgUrl"`
	GroupID         uuid.UUID       `json:"groupId"`
	GroupName       string          `json:"groupName"`
	GroupImageURL   string          `json:"groupImgUrl"`
	ExistPeriod     bool            `json:"existPeriod"`
	StartDate       string          `json:"missionStartDate"`
	EndDate         string          `json:"missionEndDate"`
	Status          string          `json:"missionStatus"`
	StatusCode      int             `json:"missionStatusCode"`
	LocationName    string          `json:"missionLocationName"`
	LocationAddress string          `json:"missionLocationAddress"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	DDay            int             `json:"missionDday"`
	Color           int             `json:"missionColor"`
	Assignment      *AssignmentInfo `json:"userAssignMission,omitempty"`
}

func formatMissionDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(missionDateLayout)
}

func formatMissionEndDate(t *time.Time) string {
	if t == nil {
		return unboundedEndDateLabel
	}
	return t.Format(missionDateLayout)
}

func toAssignmentInfo(a *mission.Assignment, userName string) *AssignmentInfo {
	if a == nil {
		return nil
	}
	return &AssignmentInfo{
		UserID:        a.UserID,
		UserName:      userName,
		MissionID:     a.MissionID,
		LocationCheck: a.LocationCheck,
		ContentCheck:  a.ContentCheck,
		IsComplete:    a.IsComplete,
	}
}
