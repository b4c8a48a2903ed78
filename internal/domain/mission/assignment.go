package mission

import (
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Assignment is the per-user progress record for a mission. One row is
// created for every group member when the mission is created, and the row is
// never reassigned to a different user or mission.
//
// IsComplete is true iff both LocationCheck and ContentCheck are true.
type Assignment struct {
	shared.BaseEntity
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_mission,priority:1"`
	MissionID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_mission,priority:2;index"`
	LocationCheck bool      `gorm:"not null;default:false"`
	ContentCheck  bool      `gorm:"not null;default:false"`
	IsComplete    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Assignment) TableName() string {
	return "user_assign_missions"
}

// NewAssignment creates an assignment with all progress flags cleared
func NewAssignment(userID, missionID uuid.UUID) *Assignment {
	return &Assignment{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		MissionID:  missionID,
	}
}

// CompleteLocationCheck records a successful location verification.
// Returns false when the location was already verified, in which case the
// call is a no-op.
func (a *Assignment) CompleteLocationCheck() bool {
	if a.LocationCheck {
		return false
	}
	a.LocationCheck = true
	a.IsComplete = a.LocationCheck && a.ContentCheck
	a.UpdatedAt = time.Now()
	return true
}

// CompleteContentCheck records a successful content verification. Location
// verification is a strict prerequisite.
func (a *Assignment) CompleteContentCheck() error {
	if !a.LocationCheck {
		return ErrLocationNotChecked
	}
	if a.IsComplete {
		return ErrAlreadyComplete
	}
	a.ContentCheck = true
	a.IsComplete = true
	a.UpdatedAt = time.Now()
	return nil
}
