package mission

import (
	"context"

	"github.com/google/uuid"
)

// MissionRepository defines the interface for mission persistence.
// Soft-deleted missions are excluded from every lookup.
type MissionRepository interface {
	// FindByID finds a mission by ID, excluding deleted missions
	FindByID(ctx context.Context, id uuid.UUID) (*Mission, error)

	// FindByIDs finds multiple missions by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Mission, error)

	// FindByGroup finds all missions of a group
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]Mission, error)

	// FindWithinBounds finds missions whose target location lies inside the
	// latitude/longitude bounding box
	FindWithinBounds(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]Mission, error)

	// Save creates or updates a mission
	Save(ctx context.Context, m *Mission) error
}

// AssignmentRepository defines the interface for assignment persistence
type AssignmentRepository interface {
	// FindByUserAndMission finds the assignment for a (user, mission) pair
	FindByUserAndMission(ctx context.Context, userID, missionID uuid.UUID) (*Assignment, error)

	// FindByUser finds all assignments of a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Assignment, error)

	// FindByMission finds all assignments of a mission
	FindByMission(ctx context.Context, missionID uuid.UUID) ([]Assignment, error)

	// Save creates or updates an assignment
	Save(ctx context.Context, a *Assignment) error

	// SaveBatch creates or updates multiple assignments
	SaveBatch(ctx context.Context, as []*Assignment) error

	// DeleteByMission removes all assignments of a mission
	DeleteByMission(ctx context.Context, missionID uuid.UUID) error
}
