package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// GormGroupRepository implements group.GroupRepository using GORM.
// Soft-deleted groups are filtered out of every lookup.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a group by ID, excluding deleted groups
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	var g group.Group
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&g, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindByIDs finds multiple groups by their IDs
func (r *GormGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]group.Group, error) {
	if len(ids) == 0 {
		return []group.Group{}, nil
	}
	var groups []group.Group
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("id IN ? AND deleted = ?", ids, false).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates a group
func (r *GormGroupRepository) Save(ctx context.Context, g *group.Group) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(g).Error
}

// Ensure GormGroupRepository implements GroupRepository
var _ group.GroupRepository = (*GormGroupRepository)(nil)

// GormMemberRepository implements group.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByGroupAndUser finds the membership row for a (group, user) pair
func (r *GormMemberRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*group.Member, error) {
	var m group.Member
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&m, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByGroup finds all members of a group
func (r *GormMemberRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]group.Member, error) {
	var members []group.Member
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// FindByUser finds all memberships of a user
func (r *GormMemberRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]group.Member, error) {
	var members []group.Member
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Exists checks whether the user belongs to the group
func (r *GormMemberRepository) Exists(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&group.Member{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a membership
func (r *GormMemberRepository) Save(ctx context.Context, m *group.Member) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(m).Error
}

// Delete removes a membership
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&group.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMemberRepository implements MemberRepository
var _ group.MemberRepository = (*GormMemberRepository)(nil)

// GormInviteRepository implements group.InviteRepository using GORM
type GormInviteRepository struct {
	db *gorm.DB
}

// NewGormInviteRepository creates a new GormInviteRepository
func NewGormInviteRepository(db *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: db}
}

// FindByID finds an invite by ID
func (r *GormInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*group.Invite, error) {
	var inv group.Invite
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindPendingByInvitee finds all pending invites addressed to a user
func (r *GormInviteRepository) FindPendingByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]group.Invite, error) {
	var invites []group.Invite
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("invitee_id = ? AND status = ?", inviteeID, group.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// Save creates or updates an invite
func (r *GormInviteRepository) Save(ctx context.Context, i *group.Invite) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(i).Error
}

// Ensure GormInviteRepository implements InviteRepository
var _ group.InviteRepository = (*GormInviteRepository)(nil)
