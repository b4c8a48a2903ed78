package group

import (
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Member links a user to a group. One row per (user, group) pair.
type Member struct {
	shared.BaseEntity
	GroupID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_group_user,priority:1"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_group_user,priority:2"`
	Starred bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "group_members"
}

// NewMember creates a membership record
func NewMember(groupID, userID uuid.UUID) *Member {
	return &Member{
		BaseEntity: shared.NewBaseEntity(),
		GroupID:    groupID,
		UserID:     userID,
	}
}

// ToggleStar flips the starred (favorite) flag and returns its new value
func (m *Member) ToggleStar() bool {
	m.Starred = !m.Starred
	m.UpdatedAt = time.Now()
	return m.Starred
}

// InviteStatus represents the lifecycle of a group invite
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

// Invite represents a pending invitation of a user into a group
type Invite struct {
	shared.BaseEntity
	GroupID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	InviterID uuid.UUID    `gorm:"type:uuid;not null"`
	InviteeID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Status    InviteStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Invite) TableName() string {
	return "group_invites"
}

// NewInvite creates a pending invite
func NewInvite(groupID, inviterID, inviteeID uuid.UUID) *Invite {
	return &Invite{
		BaseEntity: shared.NewBaseEntity(),
		GroupID:    groupID,
		InviterID:  inviterID,
		InviteeID:  inviteeID,
		Status:     InviteStatusPending,
	}
}

// Accept marks the invite as accepted
func (i *Invite) Accept() error {
	if i.Status != InviteStatusPending {
		return shared.NewDomainError("INVALID_INVITE_STATE", "Invite has already been resolved")
	}
	i.Status = InviteStatusAccepted
	i.UpdatedAt = time.Now()
	return nil
}

// Reject marks the invite as rejected
func (i *Invite) Reject() error {
	if i.Status != InviteStatusPending {
		return shared.NewDomainError("INVALID_INVITE_STATE", "Invite has already been resolved")
	}
	i.Status = InviteStatusRejected
	i.UpdatedAt = time.Now()
	return nil
}
