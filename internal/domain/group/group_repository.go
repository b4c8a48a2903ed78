package group

import (
	"context"

	"github.com/google/uuid"
)

// GroupRepository defines the interface for group persistence.
// Soft-deleted groups are excluded from every lookup.
type GroupRepository interface {
	// FindByID finds a group by ID, excluding deleted groups
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)

	// FindByIDs finds multiple groups by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Group, error)

	// Save creates or updates a group
	Save(ctx context.Context, g *Group) error
}

// MemberRepository defines the interface for membership persistence
type MemberRepository interface {
	// FindByGroupAndUser finds the membership row for a (group, user) pair
	FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*Member, error)

	// FindByGroup finds all members of a group
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]Member, error)

	// FindByUser finds all memberships of a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Member, error)

	// Exists checks whether the user belongs to the group
	Exists(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// Save creates or updates a membership
	Save(ctx context.Context, m *Member) error

	// Delete removes a membership
	Delete(ctx context.Context, id uuid.UUID) error
}

// InviteRepository defines the interface for invite persistence
type InviteRepository interface {
	// FindByID finds an invite by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invite, error)

	// FindPendingByInvitee finds all pending invites addressed to a user
	FindPendingByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]Invite, error)

	// Save creates or updates an invite
	Save(ctx context.Context, i *Invite) error
}
