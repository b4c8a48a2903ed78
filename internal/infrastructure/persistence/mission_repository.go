package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupdiary/backend/internal/domain/mission"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// GormMissionRepository implements mission.MissionRepository using GORM.
// Soft-deleted missions are filtered out of every lookup; the stored status
// column is a snapshot only, callers re-derive it from the dates.
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new GormMissionRepository
func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// FindByID finds a mission by ID, excluding deleted missions
func (r *GormMissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*mission.Mission, error) {
	var m mission.Mission
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&m, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByIDs finds multiple missions by their IDs
func (r *GormMissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]mission.Mission, error) {
	if len(ids) == 0 {
		return []mission.Mission{}, nil
	}
	var missions []mission.Mission
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("id IN ? AND deleted = ?", ids, false).
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// FindByGroup finds all missions of a group
func (r *GormMissionRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]mission.Mission, error) {
	var missions []mission.Mission
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("group_id = ? AND deleted = ?", groupID, false).
		Order("created_at ASC").
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// FindWithinBounds finds missions whose target location lies inside the
// latitude/longitude bounding box
func (r *GormMissionRepository) FindWithinBounds(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]mission.Mission, error) {
	var missions []mission.Mission
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("deleted = ?", false).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLon, maxLon).
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// Save creates or updates a mission
func (r *GormMissionRepository) Save(ctx context.Context, m *mission.Mission) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(m).Error
}

// Ensure GormMissionRepository implements MissionRepository
var _ mission.MissionRepository = (*GormMissionRepository)(nil)

// GormAssignmentRepository implements mission.AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// FindByUserAndMission finds the assignment for a (user, mission) pair
func (r *GormAssignmentRepository) FindByUserAndMission(ctx context.Context, userID, missionID uuid.UUID) (*mission.Assignment, error) {
	var a mission.Assignment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&a, "user_id = ? AND mission_id = ?", userID, missionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByUser finds all assignments of a user
func (r *GormAssignmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]mission.Assignment, error) {
	var assignments []mission.Assignment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByMission finds all assignments of a mission
func (r *GormAssignmentRepository) FindByMission(ctx context.Context, missionID uuid.UUID) ([]mission.Assignment, error) {
	var assignments []mission.Assignment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("mission_id = ?", missionID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// Save creates or updates an assignment
func (r *GormAssignmentRepository) Save(ctx context.Context, a *mission.Assignment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(a).Error
}

// SaveBatch creates or updates multiple assignments
func (r *GormAssignmentRepository) SaveBatch(ctx context.Context, as []*mission.Assignment) error {
	if len(as) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).WithContext(ctx).Save(as).Error
}

// DeleteByMission removes all assignments of a mission
func (r *GormAssignmentRepository) DeleteByMission(ctx context.Context, missionID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Delete(&mission.Assignment{}, "mission_id = ?", missionID).Error
}

// Ensure GormAssignmentRepository implements AssignmentRepository
var _ mission.AssignmentRepository = (*GormAssignmentRepository)(nil)
