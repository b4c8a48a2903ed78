package mission

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Domain errors for the mission context
var (
	ErrMissionNotFound      = shared.NewDomainError("MISSION_NOT_FOUND", "Mission does not exist")
	ErrNotMissionOwner      = shared.NewDomainError("NOT_MISSION_OWNER", "Only the mission creator may delete it")
	ErrInvalidGroupMission  = shared.NewDomainError("INVALID_GROUP_MISSION", "Mission does not belong to one of the user's groups")
	ErrInvalidUserMission   = shared.NewDomainError("INVALID_USER_MISSION", "Mission is not assigned to the user")
	ErrInvalidMissionPeriod = shared.NewDomainError("INVALID_MISSION_PERIOD", "Mission is not currently active")
	ErrLocationNotChecked   = shared.NewDomainError("NOT_CHECK_MISSION_LOCATION", "Location must be verified before content verification")
	ErrAlreadyComplete      = shared.NewDomainError("ALREADY_COMPLETE_MISSION", "Mission has already been completed")
)

// Mission represents a group-scoped challenge requiring location and photo
// verification. Deletion is a soft state transition; a mission is never
// physically removed.
type Mission struct {
	shared.BaseEntity
	GroupID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatorID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name            string     `gorm:"type:varchar(100);not null"`
	Note            string     `gorm:"type:text"`
	ExistPeriod     bool       `gorm:"not null;default:false"`
	StartDate       *time.Time `gorm:"index"`
	EndDate         *time.Time `gorm:"index"`
	LocationName    string     `gorm:"type:varchar(200)"`
	LocationAddress string     `gorm:"type:varchar(300)"`
	Latitude        float64    `gorm:"not null;index"`
	Longitude       float64    `gorm:"not null;index"`
	Color           int        `gorm:"not null;default:0"`
	Status          Status     `gorm:"type:varchar(10);not null"`
	Deleted         bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Mission) TableName() string {
	return "missions"
}

// NewMissionSpec carries the inputs for creating a mission
type NewMissionSpec struct {
	GroupID         uuid.UUID
	CreatorID       uuid.UUID
	Name            string
	Note            string
	ExistPeriod     bool
	StartDate       time.Time // calendar date, used when ExistPeriod
	EndDate         time.Time // calendar date, used when ExistPeriod
	LocationName    string
	LocationAddress string
	Latitude        float64
	Longitude       float64
	Color           int
}

// NewMission creates a mission, anchoring its period and deriving the initial
// status from now.
func NewMission(spec NewMissionSpec, now time.Time) (*Mission, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, shared.NewDomainError("INVALID_MISSION_NAME", "Mission name cannot be empty")
	}
	if spec.Latitude < -90 || spec.Latitude > 90 || spec.Longitude < -180 || spec.Longitude > 180 {
		return nil, shared.NewDomainError("INVALID_MISSION_LOCATION", "Mission coordinates are out of range")
	}

	m := &Mission{
		BaseEntity:      shared.NewBaseEntity(),
		GroupID:         spec.GroupID,
		CreatorID:       spec.CreatorID,
		Name:            strings.TrimSpace(spec.Name),
		Note:            spec.Note,
		ExistPeriod:     spec.ExistPeriod,
		LocationName:    spec.LocationName,
		LocationAddress: spec.LocationAddress,
		Latitude:        spec.Latitude,
		Longitude:       spec.Longitude,
		Color:           spec.Color,
	}

	if spec.ExistPeriod {
		start, end, err := AnchorPeriod(spec.StartDate, spec.EndDate)
		if err != nil {
			return nil, err
		}
		m.StartDate = &start
		m.EndDate = &end
	}

	m.Status = m.CurrentStatus(now)
	return m, nil
}

// CurrentStatus derives the mission's status at the given instant
func (m *Mission) CurrentStatus(now time.Time) Status {
	return DeriveStatus(m.ExistPeriod, m.StartDate, m.EndDate, now)
}

// RemainingDays returns the mission's D-day at the given instant
func (m *Mission) RemainingDays(now time.Time) int {
	return RemainingDays(m.ExistPeriod, m.EndDate, now)
}

// RefreshStatus recomputes and stores the derived status
func (m *Mission) RefreshStatus(now time.Time) {
	status := m.CurrentStatus(now)
	if status != m.Status {
		m.Status = status
		m.UpdatedAt = time.Now()
	}
}

// MarkDeleted soft-deletes the mission
func (m *Mission) MarkDeleted() {
	m.Deleted = true
	m.UpdatedAt = time.Now()
}

// IsCreatedBy returns true if the user created the mission
func (m *Mission) IsCreatedBy(userID uuid.UUID) bool {
	return m.CreatorID == userID
}

// DistanceFrom returns the distance in meters between the mission's target
// location and the given coordinates.
func (m *Mission) DistanceFrom(lat, lon float64) float64 {
	return DistanceMeters(lat, lon, m.Latitude, m.Longitude)
}
